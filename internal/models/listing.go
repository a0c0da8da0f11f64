package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	ListingStatusActive   = "active"
	ListingStatusDraft    = "draft"
	ListingStatusPending  = "pending"
	ListingStatusArchived = "archived"
)

type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	ListingType string    `gorm:"index" json:"listingType"`
	City        string    `gorm:"index" json:"city"`
	State       string    `json:"state"`
	Price       float64   `json:"price"`
	Status      string    `gorm:"index;default:draft" json:"status"`
	OwnerID     uint      `gorm:"index;not null" json:"ownerId"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`

	// Lower-cased "city, state", matched by location searches
	SearchLocation string `gorm:"index" json:"-"`

	// Set by the distance post-filter, never persisted
	DistanceFromSearch *float64 `gorm:"-" json:"distanceFromSearch,omitempty"`
}

// HasCoordinates reports whether both coordinates are present and finite
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil &&
		isFinite(*l.Latitude) && isFinite(*l.Longitude)
}

// Location renders the combined "city, state" text used for location matching
func (l *Listing) Location() string {
	switch {
	case l.City == "":
		return l.State
	case l.State == "":
		return l.City
	default:
		return l.City + ", " + l.State
	}
}

// BeforeSave keeps SearchLocation in step with City and State
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	l.SearchLocation = Fold(l.City + ", " + l.State)
	return nil
}

// Fold lower-cases text for the stored search columns and for the needles
// matched against them. Unlike SQLite's LOWER it is not limited to ASCII.
func Fold(s string) string {
	return strings.ToLower(s)
}

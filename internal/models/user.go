package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN"
	RoleHost  = "HOST"
	RoleGuest = "GUEST"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Role      string    `gorm:"index;default:GUEST" json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`

	SearchName  string `json:"-"`
	SearchEmail string `json:"-"`

	Counts *UserCounts `gorm:"-" json:"counts,omitempty"`
}

// BeforeSave refreshes the folded columns used by name and email search
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.SearchName = Fold(u.Name)
	u.SearchEmail = Fold(u.Email)
	return nil
}

// UserCounts summarizes what a user owns, for admin views
type UserCounts struct {
	Listings int64 `json:"listings"`
	Bookings int64 `json:"bookings"`
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHost, RoleGuest:
		return true
	}
	return false
}

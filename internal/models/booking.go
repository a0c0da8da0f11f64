package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingDeclined  = "DECLINED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

var ErrInvalidTransition = errors.New("invalid booking status transition")

type Booking struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"index;not null" json:"listingId"`
	Listing    *Listing  `json:"listing,omitempty"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	User       *User     `json:"user,omitempty"`
	Status     string    `gorm:"index;default:PENDING" json:"status"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// bookingTransitions lists the statuses a booking may move to from each status
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingDeclined},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

// IsValidBookingStatus reports whether status is a known booking status
func IsValidBookingStatus(status string) bool {
	switch status {
	case BookingPending, BookingConfirmed, BookingDeclined, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// CanTransition checks whether the booking may move to the given status
func (b *Booking) CanTransition(to string) error {
	for _, next := range bookingTransitions[b.Status] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
}

package models

import "time"

const NotificationBookingStatus = "booking_status"

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      *User     `json:"-"`
	BookingID *uint     `json:"bookingId,omitempty"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `gorm:"index;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

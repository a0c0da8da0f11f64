package database

import (
	"context"
	"errors"
	"fmt"

	"marketplace/server/internal/models"
	"marketplace/server/internal/search"

	"gorm.io/gorm"
)

func bookingSummaries(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Listing", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "city", "state", "owner_id")
		})
}

// QueryBookings returns one page of bookings with user and listing summaries
func (d *Database) QueryBookings(ctx context.Context, p search.Predicate) ([]models.Booking, int64, error) {
	var rows []models.Booking
	total, err := d.page(ctx, &models.Booking{}, p, &rows, bookingSummaries)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to load bookings: %w", err)
	}
	return rows, total, nil
}

// GetBooking loads a booking together with its listing
func (d *Database) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := d.db.WithContext(ctx).Preload("Listing").First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load booking: %w", err)
	}
	return &booking, nil
}

// UpdateBookingStatus moves the booking to status after checking the transition
func (d *Database) UpdateBookingStatus(ctx context.Context, booking *models.Booking, status string) error {
	if err := booking.CanTransition(status); err != nil {
		return err
	}

	result := d.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("unable to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %d changed concurrently", models.ErrInvalidTransition, booking.ID)
	}

	booking.Status = status
	return nil
}

package database

import (
	"fmt"

	"marketplace/server/internal/models"

	"gorm.io/gorm"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Create spatial index on coordinates
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`).Error; err != nil {
		return fmt.Errorf("failed to create coordinates index: %w", err)
	}

	if err := d.backfillSearchColumns(); err != nil {
		return fmt.Errorf("failed to backfill search columns: %w", err)
	}

	return nil
}

// backfillSearchColumns re-saves rows written before the folded search
// columns existed, so their BeforeSave hooks fill them in.
func (d *Database) backfillSearchColumns() error {
	var listings []models.Listing
	err := d.db.Where("search_location = '' OR search_location IS NULL").
		FindInBatches(&listings, 200, func(_ *gorm.DB, _ int) error {
			for i := range listings {
				if err := d.db.Save(&listings[i]).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return err
	}

	var users []models.User
	return d.db.Where("search_email IS NULL OR (search_email = '' AND email <> '')").
		FindInBatches(&users, 200, func(_ *gorm.DB, _ int) error {
			for i := range users {
				if err := d.db.Save(&users[i]).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}

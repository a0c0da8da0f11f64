package database

import (
	"context"
	"fmt"

	"marketplace/server/internal/models"
	"marketplace/server/internal/search"

	"gorm.io/gorm"
)

// InsertNotifications writes a batch of notifications using tx
func InsertNotifications(tx *gorm.DB, batch []*models.Notification) error {
	if len(batch) == 0 {
		return nil
	}
	if err := tx.Create(batch).Error; err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}
	return nil
}

// QueryNotifications returns one page of notifications matching p
func (d *Database) QueryNotifications(ctx context.Context, p search.Predicate) ([]models.Notification, int64, error) {
	var rows []models.Notification
	total, err := d.page(ctx, &models.Notification{}, p, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to load notifications: %w", err)
	}
	return rows, total, nil
}

package database

import (
	"context"
	"errors"
	"fmt"

	"marketplace/server/internal/models"
	"marketplace/server/internal/search"

	"gorm.io/gorm"
)

func ownerSummary(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Owner", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email", "role")
	})
}

// QueryListings returns one page of listings matching p and the total match count
func (d *Database) QueryListings(ctx context.Context, p search.Predicate) ([]models.Listing, int64, error) {
	var rows []models.Listing
	total, err := d.page(ctx, &models.Listing{}, p, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to load listings: %w", err)
	}
	return rows, total, nil
}

// QueryListingsWithOwner is QueryListings with the owner summary embedded
func (d *Database) QueryListingsWithOwner(ctx context.Context, p search.Predicate) ([]models.Listing, int64, error) {
	var rows []models.Listing
	total, err := d.page(ctx, &models.Listing{}, p, &rows, ownerSummary)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to load listings: %w", err)
	}
	return rows, total, nil
}

func (d *Database) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := d.db.WithContext(ctx).First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load listing: %w", err)
	}
	return &listing, nil
}

// ListingIDsByOwner returns the IDs of every listing owned by ownerID
func (d *Database) ListingIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	ids := []uint{}
	err := d.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("owner_id = ?", ownerID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("unable to load owned listings: %w", err)
	}
	return ids, nil
}

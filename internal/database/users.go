package database

import (
	"context"
	"fmt"

	"marketplace/server/internal/models"
	"marketplace/server/internal/search"
)

type ownedCount struct {
	ID    uint
	Count int64
}

// QueryUsers returns one page of users with their listing and booking counts
func (d *Database) QueryUsers(ctx context.Context, p search.Predicate) ([]models.User, int64, error) {
	var rows []models.User
	total, err := d.page(ctx, &models.User{}, p, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to load users: %w", err)
	}
	if len(rows) == 0 {
		return rows, total, nil
	}

	ids := make([]uint, len(rows))
	for i, u := range rows {
		ids[i] = u.ID
	}

	listings, err := d.countBy(ctx, &models.Listing{}, "owner_id", ids)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to count listings: %w", err)
	}
	bookings, err := d.countBy(ctx, &models.Booking{}, "user_id", ids)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to count bookings: %w", err)
	}

	for i := range rows {
		rows[i].Counts = &models.UserCounts{
			Listings: listings[rows[i].ID],
			Bookings: bookings[rows[i].ID],
		}
	}
	return rows, total, nil
}

// countBy counts the rows of model grouped by column, for the given ids
func (d *Database) countBy(ctx context.Context, model any, column string, ids []uint) (map[uint]int64, error) {
	var counts []ownedCount
	err := d.db.WithContext(ctx).
		Model(model).
		Select(column+" AS id, COUNT(*) AS count").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]int64, len(counts))
	for _, c := range counts {
		out[c.ID] = c.Count
	}
	return out, nil
}

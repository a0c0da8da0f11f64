package database

import (
	"context"
	"fmt"
	"time"

	"marketplace/server/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedListing struct {
	title       string
	listingType string
	city, state string
	price       float64
	lat, lng    float64
}

var seedListings = []seedListing{
	{"Taco truck with full kitchen", "food-trucks", "Phoenix", "AZ", 250, 33.4484, -112.0740},
	{"16ft concession trailer", "trailers", "Tempe", "AZ", 120, 33.4255, -111.9400},
	{"Commissary kitchen nights", "commercial-kitchens", "Mesa", "AZ", 45, 33.4152, -111.8315},
	{"Espresso cart", "equipment", "Scottsdale", "AZ", 80, 33.4942, -111.9261},
	{"Wood-fired pizza truck", "food-trucks", "Tucson", "AZ", 300, 32.2226, -110.9747},
	{"Smoker trailer", "trailers", "Flagstaff", "AZ", 150, 35.1983, -111.6513},
	{"Shaved ice stand", "equipment", "Glendale", "AZ", 60, 0, 0},
	{"Farmers market stall", "farmers-markets", "Phoenix", "AZ", 35, 33.4500, -112.0667},
}

// Seed inserts sample users, listings and bookings into an empty database.
// It does nothing when users already exist.
func (d *Database) Seed(ctx context.Context) error {
	var existing int64
	if err := d.db.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		d.logger.WithField("users", existing).Info("Database already seeded, skipping")
		return nil
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := []*models.User{
			{Name: "Ada Admin", Email: "admin@example.com", Role: models.RoleAdmin},
			{Name: "Hank Host", Email: "hank@example.com", Role: models.RoleHost},
			{Name: "Gina Guest", Email: "gina@example.com", Role: models.RoleGuest},
		}
		if err := tx.Create(users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		host, guest := users[1], users[2]

		now := time.Now().UTC()
		listings := make([]*models.Listing, 0, len(seedListings))
		for i, s := range seedListings {
			l := &models.Listing{
				Title:       s.title,
				ListingType: s.listingType,
				City:        s.city,
				State:       s.state,
				Price:       s.price,
				Status:      models.ListingStatusActive,
				OwnerID:     host.ID,
				CreatedAt:   now.Add(-time.Duration(i) * time.Hour),
			}
			// Zero coordinates mark an unlocated listing
			if s.lat != 0 || s.lng != 0 {
				lat, lng := s.lat, s.lng
				l.Latitude, l.Longitude = &lat, &lng
			}
			listings = append(listings, l)
		}
		if err := tx.Create(listings).Error; err != nil {
			return fmt.Errorf("failed to seed listings: %w", err)
		}

		start := now.AddDate(0, 0, 7).Truncate(24 * time.Hour)
		bookings := []*models.Booking{
			{ListingID: listings[0].ID, UserID: guest.ID, Status: models.BookingPending,
				StartDate: start, EndDate: start.AddDate(0, 0, 2), TotalPrice: 2 * listings[0].Price},
			{ListingID: listings[1].ID, UserID: guest.ID, Status: models.BookingConfirmed,
				StartDate: start.AddDate(0, 0, 14), EndDate: start.AddDate(0, 0, 15), TotalPrice: listings[1].Price},
		}
		if err := tx.Create(bookings).Error; err != nil {
			return fmt.Errorf("failed to seed bookings: %w", err)
		}

		d.logger.WithFields(logrus.Fields{
			"users":    len(users),
			"listings": len(listings),
			"bookings": len(bookings),
		}).Info("Seeded database")
		return nil
	})
}

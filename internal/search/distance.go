package search

import (
	"marketplace/server/internal/geometry"
	"marketplace/server/internal/models"

	"github.com/paulmach/orb"
)

// FilterByDistance keeps the rows within maxMiles of center and records the
// distance on them. Rows without coordinates are always kept. With no center
// or no radius the rows are returned unchanged.
func FilterByDistance(rows []models.Listing, center *orb.Point, maxMiles *float64) []models.Listing {
	if center == nil || maxMiles == nil {
		return rows
	}

	kept := make([]models.Listing, 0, len(rows))
	for _, row := range rows {
		if !row.HasCoordinates() {
			kept = append(kept, row)
			continue
		}

		d := geometry.HaversineMiles(*center, orb.Point{*row.Longitude, *row.Latitude})
		if d <= *maxMiles {
			row.DistanceFromSearch = &d
			kept = append(kept, row)
		}
	}
	return kept
}

package geometry

import (
	"math"
	"testing"

	"marketplace/server/internal/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	phoenix = orb.Point{-112.074, 33.4484}
	tucson  = orb.Point{-110.9747, 32.2226}
)

func TestHaversineMiles(t *testing.T) {
	t.Run("Same point", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineMiles(phoenix, phoenix))
	})

	t.Run("Phoenix to Tucson", func(t *testing.T) {
		d := HaversineMiles(phoenix, tucson)
		assert.InDelta(t, 106.0, d, 1.5)
	})

	t.Run("Symmetric", func(t *testing.T) {
		assert.InDelta(t, HaversineMiles(phoenix, tucson), HaversineMiles(tucson, phoenix), 1e-9)
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := HaversineMiles(phoenix, tucson)
		for i := 0; i < 10; i++ {
			assert.Equal(t, math.Float64bits(first), math.Float64bits(HaversineMiles(phoenix, tucson)))
		}
	})

	t.Run("Quarter meridian", func(t *testing.T) {
		d := HaversineMiles(orb.Point{0, 0}, orb.Point{0, 90})
		assert.InDelta(t, math.Pi/2*EarthRadiusMiles, d, 1e-6)
	})
}

func TestValidPoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		expected bool
	}{
		{"Phoenix", 33.4484, -112.074, true},
		{"Origin", 0, 0, true},
		{"Latitude out of range", 91, 0, false},
		{"Longitude out of range", 0, -181, false},
		{"NaN", math.NaN(), 0, false},
		{"Infinite", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidPoint(tt.lat, tt.lng))
		})
	}
}

func TestListingsFeatureCollection(t *testing.T) {
	lat, lng := 33.4484, -112.074
	dist := 1.5
	listings := []models.Listing{
		{ID: 1, Title: "Located", City: "Phoenix", State: "AZ", Latitude: &lat, Longitude: &lng, DistanceFromSearch: &dist},
		{ID: 2, Title: "Unlocated", City: "Tempe", State: "AZ"},
	}

	fc := ListingsFeatureCollection(listings)
	require.Len(t, fc.Features, 1)

	feature := fc.Features[0]
	assert.Equal(t, uint(1), feature.ID)
	assert.Equal(t, orb.Point{lng, lat}, feature.Geometry)
	assert.Equal(t, "Located", feature.Properties["title"])
	assert.Equal(t, 1.5, feature.Properties["distanceFromSearch"])
}

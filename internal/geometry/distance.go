package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMiles is the mean Earth radius used for all distance math
const EarthRadiusMiles = 3958.8

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineMiles returns the great-circle distance in miles between two
// points given in degrees. orb points are ordered [lon, lat].
func HaversineMiles(p1, p2 orb.Point) float64 {
	lat1 := toRadians(p1.Lat())
	lat2 := toRadians(p2.Lat())
	dLat := toRadians(p2.Lat() - p1.Lat())
	dLon := toRadians(p2.Lon() - p1.Lon())

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusMiles * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ValidPoint reports whether lat/lng are finite and inside the valid ranges
func ValidPoint(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

package geometry

import (
	"marketplace/server/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ListingsFeatureCollection converts the located listings into GeoJSON point
// features. Listings without coordinates are skipped.
func ListingsFeatureCollection(listings []models.Listing) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range listings {
		l := &listings[i]
		if !l.HasCoordinates() {
			continue
		}

		feature := geojson.NewFeature(orb.Point{*l.Longitude, *l.Latitude})
		feature.ID = l.ID
		feature.Properties["title"] = l.Title
		feature.Properties["listingType"] = l.ListingType
		feature.Properties["city"] = l.City
		feature.Properties["state"] = l.State
		feature.Properties["price"] = l.Price
		if l.DistanceFromSearch != nil {
			feature.Properties["distanceFromSearch"] = *l.DistanceFromSearch
		}
		fc.Append(feature)
	}
	return fc
}

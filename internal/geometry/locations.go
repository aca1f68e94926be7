package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"estatequery/server/internal/models"
)

// LocationsToFeatureCollection builds one Point feature per location that has
// both coordinates. Locations without coordinates are skipped. The collection's
// bbox covers every point and is omitted when there are none.
func LocationsToFeatureCollection(locations []models.Location) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var bound orb.Bound
	for _, loc := range locations {
		if !loc.HasCoordinates() {
			continue
		}

		point := orb.Point{
			loc.Longitude.Decimal.InexactFloat64(),
			loc.Latitude.Decimal.InexactFloat64(),
		}
		if len(fc.Features) == 0 {
			bound = point.Bound()
		} else {
			bound = bound.Extend(point)
		}

		feature := geojson.NewFeature(point)
		feature.ID = loc.LocationID
		feature.Properties["location_id"] = loc.LocationID
		feature.Properties["city"] = loc.City
		feature.Properties["street"] = loc.Street
		feature.Properties["full_address"] = loc.FullAddress
		fc.Append(feature)
	}

	if len(fc.Features) > 0 {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

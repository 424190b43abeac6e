package footprint

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection returns the tiles as GeoJSON polygon features with the
// same attributes as the FlatGeobuf columns plus a "crs" member holding the
// "EPSG:h+v" string. GeoJSON has no CRS slot of its own, so consumers must
// read it from the properties.
func FeatureCollection(tiles []Tile) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range tiles {
		f := geojson.NewFeature(boundToPolygon(t.Bounds))
		f.Properties = geojson.Properties{
			"name":       t.Name,
			"horizontal": t.CRS.Horizontal,
			"points":     t.Points,
			"crs":        t.CRS.String(),
		}
		if t.CRS.HasVertical() {
			f.Properties["vertical"] = t.CRS.Vertical
		}
		fc.Append(f)
	}
	return fc
}

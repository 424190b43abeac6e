package footprint

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestFeatureCollection(t *testing.T) {
	tiles := testTiles()
	fc := FeatureCollection(tiles)

	if len(fc.Features) != len(tiles) {
		t.Fatalf("expected %d features, got %d", len(tiles), len(fc.Features))
	}

	f := fc.Features[0]
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected polygon, got %T", f.Geometry)
	}
	if poly.Bound() != tiles[0].Bounds {
		t.Errorf("expected bound %v, got %v", tiles[0].Bounds, poly.Bound())
	}
	if got := f.Properties.MustString("crs"); got != "EPSG:25832+5783" {
		t.Errorf("expected crs 'EPSG:25832+5783', got %q", got)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("UnmarshalFeatureCollection failed: %v", err)
	}
	if got := back.Features[1].Properties.MustString("name"); got != tiles[1].Name {
		t.Errorf("expected name %q, got %q", tiles[1].Name, got)
	}
	if got := back.Features[1].Properties.MustFloat64("vertical"); got != 5783 {
		t.Errorf("expected vertical 5783, got %v", got)
	}
}

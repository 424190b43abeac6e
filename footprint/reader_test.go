package footprint

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/paulmach/orb"
	"github.com/tingold/lascrs"
)

func TestNewReaderFromData_Invalid(t *testing.T) {
	_, err := NewReaderFromData([]byte("not a flatgeobuf"))
	if err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestNewReaderFromData_Empty(t *testing.T) {
	_, err := NewReaderFromData([]byte{})
	if err == nil {
		t.Error("expected error for empty data")
	}
}

func writeFile(t *testing.T, tiles []Tile, opts *Options) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "footprints.fgb")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	err = Write(file, tiles, opts)
	_ = file.Close()
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return path
}

func TestRoundTrip_Header(t *testing.T) {
	path := writeFile(t, testTiles(), &Options{Name: "survey", IncludeIndex: true})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	header := reader.Header()
	if header == nil {
		t.Fatal("expected non-nil header")
	}

	if header.GeometryType != "Polygon" {
		t.Errorf("expected geometry type 'Polygon', got %q", header.GeometryType)
	}
	if header.FeaturesCount != 3 {
		t.Errorf("expected 3 features, got %d", header.FeaturesCount)
	}
	if !header.HasIndex {
		t.Error("expected HasIndex to be true")
	}

	if header.CRS == nil {
		t.Fatal("expected header CRS")
	}
	if *header.CRS != utm32DHHN {
		t.Errorf("expected CRS %v, got %v", utm32DHHN, *header.CRS)
	}

	want := []ColumnInfo{
		{Name: "name", Type: "String"},
		{Name: "horizontal", Type: "UShort"},
		{Name: "vertical", Type: "UShort", Nullable: true},
		{Name: "points", Type: "ULong"},
	}
	if len(header.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(header.Columns))
	}
	for i, c := range want {
		if header.Columns[i] != c {
			t.Errorf("column %d: expected %+v, got %+v", i, c, header.Columns[i])
		}
	}
}

func TestRoundTrip_Tiles(t *testing.T) {
	want := testTiles()
	path := writeFile(t, want, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	got, err := reader.Tiles()
	if err != nil {
		t.Fatalf("Tiles failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tiles, got %d", len(want), len(got))
	}

	// The spatial index reorders features.
	sort.Slice(got, func(i, j int) bool { return got[i].Name < got[j].Name })
	sort.Slice(want, func(i, j int) bool { return want[i].Name < want[j].Name })
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tile %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestRoundTrip_HorizontalOnly(t *testing.T) {
	tiles := testTiles()
	for i := range tiles {
		tiles[i].CRS = lascrs.CRS{Horizontal: 32633}
	}

	var buf bytes.Buffer
	if err := Write(&buf, tiles, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reader, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	h := reader.Header()
	if h.CRS == nil || *h.CRS != (lascrs.CRS{Horizontal: 32633}) {
		t.Errorf("expected EPSG:32633, got %v", h.CRS)
	}

	got, err := reader.Tiles()
	if err != nil {
		t.Fatalf("Tiles failed: %v", err)
	}
	for _, tile := range got {
		if tile.CRS.HasVertical() {
			t.Errorf("tile %s: unexpected vertical code %d", tile.Name, tile.CRS.Vertical)
		}
	}
}

func TestRoundTrip_Search(t *testing.T) {
	var tiles []Tile
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			minX, minY := 480000+float64(x)*1000, 5650000+float64(y)*1000
			tiles = append(tiles, Tile{
				Name:   fmt.Sprintf("32_%d_%d.laz", 480+x, 5650+y),
				Bounds: orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{minX + 1000, minY + 1000}},
				CRS:    utm32DHHN,
				Points: uint64(x*10 + y),
			})
		}
	}
	path := writeFile(t, tiles, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	bounds := orb.Bound{
		Min: orb.Point{482100, 5652100},
		Max: orb.Point{482900, 5652900},
	}
	results, err := reader.Search(bounds)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected some results from search")
	}

	found := false
	for _, tile := range results {
		if !tile.Bounds.Intersects(bounds) {
			t.Errorf("tile %s does not intersect the query", tile.Name)
		}
		if tile.Points == 22 {
			found = true
		}
	}
	if !found {
		t.Error("expected the tile containing the query")
	}
}

func TestSearch_NoIndex(t *testing.T) {
	path := writeFile(t, testTiles(), &Options{IncludeIndex: false})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	_, err = reader.Search(orb.Bound{Max: orb.Point{1, 1}})
	if !errors.Is(err, ErrNoIndex) {
		t.Errorf("expected ErrNoIndex, got %v", err)
	}

	_, err = reader.Tiles()
	if !errors.Is(err, ErrNoIndex) {
		t.Errorf("expected ErrNoIndex from Tiles, got %v", err)
	}
}

func TestTiles_NoIndexKeepsError(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testTiles(), &Options{IncludeIndex: false}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reader, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	tiles, err := reader.Tiles()
	if !errors.Is(err, ErrNoIndex) {
		t.Errorf("expected ErrNoIndex, got %d tiles and err %v", len(tiles), err)
	}
}

func TestReader_Closed(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testTiles(), nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reader, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if h := reader.Header(); h != nil {
		t.Errorf("expected nil header after Close, got %+v", h)
	}
	if _, err := reader.Tiles(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Tiles, got %v", err)
	}
	if _, err := reader.Search(orb.Bound{Max: orb.Point{1, 1}}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Search, got %v", err)
	}
}

package footprint

import (
	"math"
	"strings"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
	"github.com/tingold/lascrs"
)

// Reader provides read access to a footprint layer.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// NewReader opens a footprint layer from a file path.
// The file is memory-mapped.
func NewReader(path string) (*Reader, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// NewReaderFromData opens a footprint layer held in memory.
func NewReaderFromData(data []byte) (*Reader, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// Header returns the layer metadata, or nil once the reader is closed.
func (r *Reader) Header() *Header {
	if r.fgb == nil {
		return nil
	}
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
	}

	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3)}
	}

	var crs flattypes.Crs
	if h.Crs(&crs) != nil {
		header.CRS = headerCRS(&crs)
	}

	for i := 0; i < h.ColumnsLength(); i++ {
		var col flattypes.Column
		if h.Columns(&col, i) {
			header.Columns = append(header.Columns, ColumnInfo{
				Name:     string(col.Name()),
				Type:     flattypes.EnumNamesColumnType[col.Type()],
				Nullable: col.Nullable(),
			})
		}
	}

	return header
}

// headerCRS maps a header CRS onto an EPSG code pair. A name of the form
// "EPSG:h+v" with a matching horizontal code supplies the vertical code.
func headerCRS(c *flattypes.Crs) *lascrs.CRS {
	if org := string(c.Org()); org != "" && !strings.EqualFold(org, "EPSG") {
		return nil
	}

	code := c.Code()
	if code < 0 || !lascrs.InEPSGRange(uint32(code)) {
		return nil
	}

	out := lascrs.CRS{Horizontal: uint16(code)}
	if named, err := lascrs.ParseCode(string(c.Name())); err == nil && named.Horizontal == out.Horizontal {
		out = named
	}
	return &out
}

// Tiles returns every footprint in the layer, in index order. Reading all
// features goes through the spatial index, so layers written without one
// return ErrNoIndex.
func (r *Reader) Tiles() ([]Tile, error) {
	if r.fgb == nil {
		return nil, ErrClosed
	}
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}
	if h.FeaturesCount() == 0 {
		return nil, nil
	}
	return r.Search(orb.Bound{
		Min: orb.Point{-math.MaxFloat64, -math.MaxFloat64},
		Max: orb.Point{math.MaxFloat64, math.MaxFloat64},
	})
}

// Search returns the footprints whose extent intersects bounds.
func (r *Reader) Search(bounds orb.Bound) ([]Tile, error) {
	if r.fgb == nil {
		return nil, ErrClosed
	}
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}

	features, err := r.fgb.Search(bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1])
	if err != nil {
		return nil, err
	}

	tiles := make([]Tile, 0, len(features))
	for _, f := range features {
		t, ok, err := convertFeature(f, h)
		if err != nil {
			return nil, err
		}
		if ok {
			tiles = append(tiles, t)
		}
	}

	return tiles, nil
}

// Close releases the reader. The underlying mapping is freed by the
// FlatGeoBuf finalizer. Later calls to Tiles and Search return ErrClosed.
func (r *Reader) Close() error {
	r.fgb = nil
	return nil
}

// convertFeature decodes one feature. Features without a polygon are
// skipped.
func convertFeature(f *flattypes.Feature, header *flattypes.Header) (Tile, bool, error) {
	if f == nil {
		return Tile{}, false, nil
	}

	var geom flattypes.Geometry
	poly := polygonFromFGB(f.Geometry(&geom))
	if len(poly) == 0 {
		return Tile{}, false, nil
	}

	t := Tile{Bounds: poly.Bound()}

	n := f.PropertiesLength()
	if n > 0 && header.ColumnsLength() > 0 {
		props := make([]byte, n)
		for i := 0; i < n; i++ {
			props[i] = byte(f.Properties(i))
		}
		if err := decodeTile(props, header, &t); err != nil {
			return Tile{}, false, err
		}
	}

	return t, true, nil
}

package footprint

import (
	"fmt"
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/tingold/lascrs"
)

// Write writes tile footprints as a FlatGeobuf polygon layer.
//
// All tiles must carry the same CRS, which is stored in the layer header
// with organization "EPSG", the horizontal code and the "EPSG:h+v" name.
// The vertical code has no slot of its own in the header and is kept per
// feature in the vertical column.
func Write(w io.Writer, tiles []Tile, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	crs, err := sharedCRS(tiles)
	if err != nil {
		return err
	}

	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetGeometryType(flattypes.GeometryTypePolygon)
	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}
	header.SetColumns(tileColumns(builder))

	hc := writer.NewCrs(builder)
	hc.SetOrg("EPSG")
	hc.SetCode(int32(crs.Horizontal))
	hc.SetName(crs.String())
	header.SetCrs(hc)

	gen := &tileGenerator{tiles: tiles}
	_, err = writer.NewWriter(header, opts.IncludeIndex, gen, nil).Write(w)
	return err
}

// sharedCRS checks the tiles and returns the CRS they all carry.
func sharedCRS(tiles []Tile) (lascrs.CRS, error) {
	if len(tiles) == 0 {
		return lascrs.CRS{}, ErrNoTiles
	}

	crs := tiles[0].CRS
	if !lascrs.InEPSGRange(uint32(crs.Horizontal)) {
		return lascrs.CRS{}, &lascrs.BadHorizontalCodeError{CRS: crs, Code: uint32(crs.Horizontal)}
	}

	for i, t := range tiles {
		if t.Bounds.IsEmpty() {
			return lascrs.CRS{}, fmt.Errorf("%w: tile %d (%s)", ErrEmptyBounds, i, t.Name)
		}
		if t.CRS != crs {
			return lascrs.CRS{}, fmt.Errorf("%w: tile %d (%s) is %v, tile 0 is %v", ErrMixedCRS, i, t.Name, t.CRS, crs)
		}
	}

	return crs, nil
}

// tileGenerator feeds tiles to the FlatGeobuf writer, one feature each.
type tileGenerator struct {
	tiles []Tile
	index int
}

func (g *tileGenerator) Generate() *writer.Feature {
	if g.index >= len(g.tiles) {
		return nil
	}

	t := g.tiles[g.index]
	g.index++

	builder := flatbuffers.NewBuilder(1024)
	feature := writer.NewFeature(builder)
	feature.SetGeometry(boundGeometry(t.Bounds, builder))
	feature.SetProperties(encodeTile(t))

	return feature
}

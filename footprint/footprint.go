// Package footprint writes and reads lidar tile footprints as FlatGeobuf.
// Each tile becomes a rectangular polygon and the layer header carries the
// EPSG CRS resolved by lascrs, so GIS tools place the footprints correctly.
package footprint

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/tingold/lascrs"
)

// Common errors returned by this package.
var (
	ErrNoTiles     = errors.New("footprint: no tiles")
	ErrEmptyBounds = errors.New("footprint: tile has empty bounds")
	ErrMixedCRS    = errors.New("footprint: tiles do not share one CRS")
	ErrNoIndex     = errors.New("footprint: file has no spatial index")
	ErrInvalidData = errors.New("footprint: invalid data")
	ErrClosed      = errors.New("footprint: reader is closed")
)

// Tile is the footprint of one lidar file.
type Tile struct {
	Name   string     // File name or tile id
	Bounds orb.Bound  // Horizontal extent in CRS units
	CRS    lascrs.CRS // CRS resolved from the file's records
	Points uint64     // Point count from the file header
}

// Options configures footprint writing.
type Options struct {
	Name         string // Layer name
	Description  string // Layer description
	IncludeIndex bool   // Include spatial index (default: true)
}

// DefaultOptions returns default options for writing footprint layers.
func DefaultOptions() *Options {
	return &Options{
		IncludeIndex: true,
	}
}

// ColumnInfo describes a property column in a footprint layer.
type ColumnInfo struct {
	Name     string // Column name
	Type     string // Column type ("String", "UShort", "ULong", etc.)
	Nullable bool   // Whether the column can contain null values
}

// Header contains metadata about a footprint layer.
type Header struct {
	Name          string
	Description   string
	GeometryType  string
	FeaturesCount uint64
	Envelope      [4]float64 // [minX, minY, maxX, maxY]

	// CRS is nil when the header has no CRS or its code fails the EPSG
	// range check.
	CRS      *lascrs.CRS
	HasIndex bool
	Columns  []ColumnInfo
}

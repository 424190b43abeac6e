// Package lascrs extracts the EPSG coordinate reference system stored in the
// CRS records of lidar (LAS/LAZ/COPC) files.
//
// Lidar files carry their CRS either as a GeoTIFF key directory or as a
// Well-Known-Text string (WKT1 or WKT2). The host reader locates and, if
// needed, decompresses those records; this package only sees their payload.
//
//	crs, err := lascrs.ParseWKT(wktBytes)
//	var bad *lascrs.BadHorizontalCodeError
//	if errors.As(err, &bad) {
//		// structure understood, code is garbage (often 0)
//	}
//
// All functions are stateless and safe for concurrent use.
package lascrs

import (
	"fmt"
	"strconv"
	"strings"
)

// Plausible EPSG codes for a CRS, inclusive. Codes below 1024 are reserved or
// undefined in GeoTIFF, 32767 means user-defined and everything above is
// private use.
const (
	MinEPSGCode = 1024
	MaxEPSGCode = 32766
)

// InEPSGRange reports whether code lies within [MinEPSGCode, MaxEPSGCode].
// It is a plausibility filter, not a registry lookup.
func InEPSGRange(code uint32) bool {
	return code >= MinEPSGCode && code <= MaxEPSGCode
}

// CRS is a horizontal EPSG code with an optional vertical EPSG code.
//
// Vertical is zero when no usable vertical CRS was found.
type CRS struct {
	Horizontal uint16
	Vertical   uint16
}

// HasVertical reports whether a vertical code is present.
func (c CRS) HasVertical() bool {
	return c.Vertical != 0
}

func (c CRS) String() string {
	if c.HasVertical() {
		return fmt.Sprintf("EPSG:%d+%d", c.Horizontal, c.Vertical)
	}
	return fmt.Sprintf("EPSG:%d", c.Horizontal)
}

// ParseCode parses the form produced by CRS.String: "EPSG:h" or
// "EPSG:h+v". The codes go through the same checks as parsed records.
func ParseCode(s string) (CRS, error) {
	rest, ok := cutPrefixFold(strings.TrimSpace(s), "EPSG:")
	if !ok {
		return CRS{}, fmt.Errorf("%w: %q lacks the EPSG: prefix", ErrInvalidCode, s)
	}

	var raw rawCodes
	h, v, compound := strings.Cut(rest, "+")
	code, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return CRS{}, fmt.Errorf("%w: horizontal code in %q: %v", ErrInvalidCode, s, err)
	}
	raw.horizontal, raw.hasHorizontal = uint32(code), true
	if compound {
		code, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return CRS{}, fmt.Errorf("%w: vertical code in %q: %v", ErrInvalidCode, s, err)
		}
		raw.vertical, raw.hasVertical = uint32(code), true
	}
	return validate(raw)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// rawCodes is what either parser hands to the validator. Values may be out
// of range or sentinels such as 0.
type rawCodes struct {
	horizontal    uint32
	vertical      uint32
	hasHorizontal bool
	hasVertical   bool
}

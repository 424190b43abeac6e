package lascrs

import (
	"errors"
	"fmt"
)

// Common errors returned by this package. The typed errors below match
// their sentinel with errors.Is.
var (
	ErrNoCRS                    = errors.New("lascrs: no CRS record present")
	ErrMissingHorizontal        = errors.New("lascrs: no horizontal CRS code found")
	ErrBadHorizontalCode        = errors.New("lascrs: horizontal EPSG code out of range")
	ErrUnimplementedGeoTiffData = errors.New("lascrs: CRS stored in GeoTIFF ASCII or double params is not supported")
	ErrUnsupportedCRSForm       = errors.New("lascrs: unsupported CRS form")
	ErrMalformedWKT             = errors.New("lascrs: malformed WKT")
	ErrMalformedGeoTiff         = errors.New("lascrs: malformed GeoTIFF key directory")
	ErrUnregisteredCode         = errors.New("lascrs: EPSG code not registered")
	ErrInvalidCode              = errors.New("lascrs: invalid EPSG code string")
)

// errNoGeoKey is returned by the key directory walk when none of the CRS
// keys is present. The resolver reports it as ErrNoCRS.
var errNoGeoKey = errors.New("lascrs: no CRS GeoKey in directory")

// BadHorizontalCodeError reports a horizontal code that was parsed from a
// well formed record but lies outside the EPSG range. Tools that write CRS
// records for CRS-less files commonly produce code 0.
type BadHorizontalCodeError struct {
	// CRS is the result that would have been returned. Its vertical code
	// has already been filtered.
	CRS CRS
	// Code is the horizontal code as parsed. It differs from
	// CRS.Horizontal only when it does not fit in 16 bits.
	Code uint32
}

func (e *BadHorizontalCodeError) Error() string {
	return fmt.Sprintf("lascrs: horizontal EPSG code %d out of range [%d, %d]", e.Code, MinEPSGCode, MaxEPSGCode)
}

func (e *BadHorizontalCodeError) Is(target error) bool {
	return target == ErrBadHorizontalCode
}

// UnimplementedGeoTiffDataError reports a CRS GeoKey whose value lives in
// the ASCII or double parameter block.
type UnimplementedGeoTiffDataError struct {
	Data GeoTiffData
}

func (e *UnimplementedGeoTiffDataError) Error() string {
	return fmt.Sprintf("lascrs: %v stored in %v params (count %d, offset %d) is not supported",
		e.Data.Key, e.Data.Location, e.Data.Count, e.Data.Offset)
}

func (e *UnimplementedGeoTiffDataError) Is(target error) bool {
	return target == ErrUnimplementedGeoTiffData
}

// UnsupportedCRSError reports a recognised CRS that cannot be reduced to
// EPSG codes: local or engineering systems, or user-defined ones.
type UnsupportedCRSError struct {
	Keyword string
	Reason  string
}

func (e *UnsupportedCRSError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("lascrs: unsupported CRS: %s", e.Reason)
	}
	return fmt.Sprintf("lascrs: unsupported CRS %s: %s", e.Keyword, e.Reason)
}

func (e *UnsupportedCRSError) Is(target error) bool {
	return target == ErrUnsupportedCRSForm
}

// WKTSyntaxError reports a grammar violation. Offset is the byte offset
// into the input and Near a short excerpt starting there.
type WKTSyntaxError struct {
	Offset int
	Near   string
	Reason string
}

func (e *WKTSyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("lascrs: malformed WKT at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("lascrs: malformed WKT at offset %d near %q: %s", e.Offset, e.Near, e.Reason)
}

func (e *WKTSyntaxError) Is(target error) bool {
	return target == ErrMalformedWKT
}

// GeoTiffDirectoryError reports a truncated or inconsistent key directory.
type GeoTiffDirectoryError struct {
	Offset int
	Reason string
}

func (e *GeoTiffDirectoryError) Error() string {
	return fmt.Sprintf("lascrs: malformed GeoTIFF key directory at byte %d: %s", e.Offset, e.Reason)
}

func (e *GeoTiffDirectoryError) Is(target error) bool {
	return target == ErrMalformedGeoTiff
}

// UnregisteredCodeError is returned by CheckRegistered.
type UnregisteredCodeError struct {
	Code     uint16
	Vertical bool
}

func (e *UnregisteredCodeError) Error() string {
	kind := "horizontal"
	if e.Vertical {
		kind = "vertical"
	}
	return fmt.Sprintf("lascrs: %s EPSG code %d not registered", kind, e.Code)
}

func (e *UnregisteredCodeError) Is(target error) bool {
	return target == ErrUnregisteredCode
}

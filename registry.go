package lascrs

import (
	"github.com/wroge/wgs84"
)

// Registry answers whether an EPSG code exists. Parsing never consults a
// registry on its own; pass one through Options or call CheckRegistered.
type Registry interface {
	Registered(code uint16) bool
}

// RegistryFunc adapts a plain function to Registry.
type RegistryFunc func(code uint16) bool

func (f RegistryFunc) Registered(code uint16) bool {
	return f(code)
}

// WGS84Registry returns a Registry backed by the EPSG repository of
// github.com/wroge/wgs84. Its coverage is partial: it holds WGS 84, Web
// Mercator and a selection of projected systems, but many valid codes such
// as NAD83 UTM zones, CH1903+ and all vertical CRSs are missing. Using it
// in Options.Registry rejects files with those codes.
func WGS84Registry() Registry {
	repo := wgs84.EPSG()
	return RegistryFunc(func(code uint16) bool {
		return repo.Code(int(code)) != nil
	})
}

// CheckRegistered verifies both codes of crs against reg. The vertical code
// is only checked when present.
func CheckRegistered(crs CRS, reg Registry) error {
	if reg == nil {
		return nil
	}
	if !reg.Registered(crs.Horizontal) {
		return &UnregisteredCodeError{Code: crs.Horizontal}
	}
	if crs.HasVertical() && !reg.Registered(crs.Vertical) {
		return &UnregisteredCodeError{Code: crs.Vertical, Vertical: true}
	}
	return nil
}

package lascrs

import (
	"context"
	"log/slog"
)

// Header exposes the CRS record payloads of a lidar file. The payloads are
// already extracted from their (E)VLRs and decompressed.
type Header interface {
	// GeoTiffCRS returns the GeoKeyDirectoryTag record (34735).
	GeoTiffCRS() ([]byte, bool)
	// WKTCRS returns the OGC coordinate system WKT record (2112).
	WKTCRS() ([]byte, bool)
}

// WKTFlagger is implemented by headers that know the global encoding WKT
// bit. Parse uses it only to warn about inconsistent files.
type WKTFlagger interface {
	HasWKTCRS() bool
}

// Options configures Parse.
type Options struct {
	Logger   *slog.Logger // Receives warnings about inconsistent headers (optional)
	Registry Registry     // Applied to the validated result (optional)
}

// DefaultOptions returns options that neither log nor consult a registry.
func DefaultOptions() *Options {
	return &Options{}
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(discardHandler{})
	}
	return o.Logger
}

// discardHandler drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h discardHandler) WithGroup(string) slog.Handler { return h }

// Record is a CRS record payload in one of the supported encodings. The
// set is closed: GeoTiffRecord and WKTRecord.
type Record interface {
	isRecord()
}

// GeoTiffRecord is a GeoTIFF key directory payload.
type GeoTiffRecord []byte

// WKTRecord is a WKT CRS payload of either dialect.
type WKTRecord []byte

func (GeoTiffRecord) isRecord() {}
func (WKTRecord) isRecord() {}

// Resolve parses rec and validates the codes it holds.
func Resolve(rec Record) (CRS, error) {
	var (
		raw rawCodes
		err error
	)
	switch r := rec.(type) {
	case GeoTiffRecord:
		raw, err = geoTiffCodes(r)
	case WKTRecord:
		raw, err = parseWKTCodes(r)
	default:
		return CRS{}, ErrNoCRS
	}
	if err != nil {
		return CRS{}, err
	}
	return validate(raw)
}

func geoTiffCodes(b []byte) (rawCodes, error) {
	dir, err := ParseKeyDirectory(b)
	if err != nil {
		return rawCodes{}, err
	}
	raw, err := dir.crsCodes()
	if err == errNoGeoKey {
		return rawCodes{}, ErrNoCRS
	}
	return raw, err
}

// ParseGeoTiff extracts the CRS from a GeoTIFF key directory.
func ParseGeoTiff(b []byte) (CRS, error) {
	return Resolve(GeoTiffRecord(b))
}

// ParseWKT extracts the CRS from a WKT1 or WKT2 definition.
func ParseWKT(b []byte) (CRS, error) {
	return Resolve(WKTRecord(b))
}

// Parse extracts the CRS of h. The GeoTIFF record is used when present,
// otherwise the WKT record. opts may be nil.
func Parse(h Header, opts *Options) (CRS, error) {
	log := opts.logger()

	rec, err := recordOf(h, log)
	if err != nil {
		return CRS{}, err
	}

	crs, err := Resolve(rec)
	if err != nil {
		return CRS{}, err
	}

	if opts != nil && opts.Registry != nil {
		if err := CheckRegistered(crs, opts.Registry); err != nil {
			return CRS{}, err
		}
	}
	return crs, nil
}

// recordOf picks the record to parse and warns about inconsistencies.
func recordOf(h Header, log *slog.Logger) (Record, error) {
	if h == nil {
		return nil, ErrNoCRS
	}
	geotiff, hasGeoTiff := h.GeoTiffCRS()
	wkt, hasWKT := h.WKTCRS()

	if f, ok := h.(WKTFlagger); ok {
		switch flagged := f.HasWKTCRS(); {
		case flagged && !hasWKT:
			log.Warn("header flags a WKT CRS but no WKT record found")
		case !flagged && hasWKT:
			log.Warn("WKT record found but header does not flag a WKT CRS")
		}
	}

	switch {
	case hasGeoTiff:
		if hasWKT {
			log.Warn("both GeoTIFF and WKT CRS records found, using GeoTIFF")
		}
		log.Debug("parsing GeoTIFF CRS record", slog.Int("bytes", len(geotiff)))
		return GeoTiffRecord(geotiff), nil
	case hasWKT:
		log.Debug("parsing WKT CRS record", slog.Int("bytes", len(wkt)), slog.String("dialect", DetectDialect(wkt).String()))
		return WKTRecord(wkt), nil
	default:
		return nil, ErrNoCRS
	}
}

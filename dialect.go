package lascrs

import "strings"

// Dialect is a WKT CRS grammar generation.
type Dialect int

const (
	DialectUnknown Dialect = iota
	// DialectV1 is OGC 01-009, as written by most LAS 1.4 tools.
	DialectV1
	// DialectV2 is ISO 19162:2015 and later.
	DialectV2
)

func (d Dialect) String() string {
	switch d {
	case DialectV1:
		return "WKT1"
	case DialectV2:
		return "WKT2"
	default:
		return "unknown"
	}
}

// nodeKind says what a CRS keyword stands for.
type nodeKind int

const (
	kindNone nodeKind = iota
	kindHorizontal
	kindVertical
	kindCompound
	kindBound
	kindUnsupported
)

var wkt1Kinds = map[string]nodeKind{
	"PROJCS":    kindHorizontal,
	"GEOGCS":    kindHorizontal,
	"GEOCCS":    kindHorizontal,
	"VERT_CS":   kindVertical,
	"VERTCS":    kindVertical,
	"COMPD_CS":  kindCompound,
	"LOCAL_CS":  kindUnsupported,
	"FITTED_CS": kindUnsupported,
}

var wkt2Kinds = map[string]nodeKind{
	"PROJCRS":          kindHorizontal,
	"PROJECTEDCRS":     kindHorizontal,
	"GEOGCRS":          kindHorizontal,
	"GEOGRAPHICCRS":    kindHorizontal,
	"GEODCRS":          kindHorizontal,
	"GEODETICCRS":      kindHorizontal,
	"VERTCRS":          kindVertical,
	"VERTICALCRS":      kindVertical,
	"COMPOUNDCRS":      kindCompound,
	"BOUNDCRS":         kindBound,
	"ENGCRS":           kindUnsupported,
	"ENGINEERINGCRS":   kindUnsupported,
	"TIMECRS":          kindUnsupported,
	"PARAMETRICCRS":    kindUnsupported,
	"DERIVEDPROJCRS":   kindUnsupported,
	"IMAGECRS":         kindUnsupported,
	"IMAGE":            kindUnsupported,
	"ENGINEERINGIMAGE": kindUnsupported,
}

// kindOf classifies keyword under the rules of dialect d.
func (d Dialect) kindOf(keyword string) nodeKind {
	switch d {
	case DialectV1:
		return wkt1Kinds[strings.ToUpper(keyword)]
	case DialectV2:
		return wkt2Kinds[strings.ToUpper(keyword)]
	default:
		return kindNone
	}
}

// authorityKeyword is the clause naming a node's identifier.
func (d Dialect) authorityKeyword() string {
	if d == DialectV1 {
		return "AUTHORITY"
	}
	return "ID"
}

// DetectDialect picks the grammar from the leading keyword of b.
func DetectDialect(b []byte) Dialect {
	kw := leadingKeyword(b)
	switch {
	case kw == "":
		return DialectUnknown
	case wkt1Kinds[kw] != kindNone:
		return DialectV1
	case wkt2Kinds[kw] != kindNone:
		return DialectV2
	default:
		return DialectUnknown
	}
}

// leadingKeyword returns the upper-cased first keyword, skipping a UTF-8
// BOM and leading whitespace.
func leadingKeyword(b []byte) string {
	i := 0
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		i = 3
	}
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	start := i
	for i < len(b) && isWordByte(b[i]) {
		i++
	}
	return strings.ToUpper(string(b[start:i]))
}

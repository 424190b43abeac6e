package lascrs

import (
	"encoding/binary"
	"fmt"
)

// GeoKey identifies an entry in a GeoTIFF key directory.
type GeoKey uint16

// GeoKeys read by this package.
const (
	KeyModelType        GeoKey = 1024
	KeyRasterType       GeoKey = 1025
	KeyCitation         GeoKey = 1026
	KeyGeographicType   GeoKey = 2048
	KeyGeogCitation     GeoKey = 2049
	KeyProjectedCSType  GeoKey = 3072
	KeyPCSCitation      GeoKey = 3073
	KeyVerticalCSType   GeoKey = 4096
	KeyVerticalCitation GeoKey = 4097
)

var geoKeyNames = map[GeoKey]string{
	KeyModelType:        "GTModelTypeGeoKey",
	KeyRasterType:       "GTRasterTypeGeoKey",
	KeyCitation:         "GTCitationGeoKey",
	KeyGeographicType:   "GeographicTypeGeoKey",
	KeyGeogCitation:     "GeogCitationGeoKey",
	KeyProjectedCSType:  "ProjectedCSTypeGeoKey",
	KeyPCSCitation:      "PCSCitationGeoKey",
	KeyVerticalCSType:   "VerticalCSTypeGeoKey",
	KeyVerticalCitation: "VerticalCitationGeoKey",
}

func (k GeoKey) String() string {
	if name, ok := geoKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("GeoKey(%d)", uint16(k))
}

// TagLocation is the TIFFTagLocation field of a key entry: 0 for a value
// stored inline, otherwise the TIFF tag holding the value.
type TagLocation uint16

const (
	LocationInline TagLocation = 0
	LocationDouble TagLocation = 34736 // GeoDoubleParamsTag
	LocationASCII  TagLocation = 34737 // GeoAsciiParamsTag
)

func (l TagLocation) String() string {
	switch l {
	case LocationInline:
		return "inline"
	case LocationDouble:
		return "double"
	case LocationASCII:
		return "ascii"
	default:
		return fmt.Sprintf("TagLocation(%d)", uint16(l))
	}
}

// GeoTiffData identifies a key whose value is held in a parameter block
// instead of inline.
type GeoTiffData struct {
	Key      GeoKey
	Location TagLocation
	Count    uint16
	Offset   uint16
}

// userDefined is the GeoTIFF code for a user-defined model or CRS.
const userDefined = 32767

const (
	directoryHeaderSize = 8
	keyEntrySize        = 8
)

// KeyEntry is one decoded record of a key directory.
type KeyEntry struct {
	Key      GeoKey
	Location TagLocation
	Count    uint16
	// Value is the inline value when Location is LocationInline, else the
	// index into the parameter block.
	Value    uint16
}

// Inline reports whether the value is stored in the entry itself.
func (e KeyEntry) Inline() bool {
	return e.Location == LocationInline
}

func (e KeyEntry) data() GeoTiffData {
	return GeoTiffData{Key: e.Key, Location: e.Location, Count: e.Count, Offset: e.Value}
}

// KeyDirectory is a decoded GeoKeyDirectoryTag (LAS record 34735).
type KeyDirectory struct {
	Version       uint16
	Revision      uint16
	MinorRevision uint16
	Entries       []KeyEntry
}

// ParseKeyDirectory decodes a little-endian GeoTIFF key directory. Only the
// structure is checked; values are not interpreted.
func ParseKeyDirectory(b []byte) (*KeyDirectory, error) {
	if len(b) < directoryHeaderSize {
		return nil, &GeoTiffDirectoryError{Offset: 0, Reason: fmt.Sprintf("%d bytes is too short for the header", len(b))}
	}

	dir := &KeyDirectory{
		Version:       binary.LittleEndian.Uint16(b[0:2]),
		Revision:      binary.LittleEndian.Uint16(b[2:4]),
		MinorRevision: binary.LittleEndian.Uint16(b[4:6]),
	}
	if dir.Version != 1 {
		return nil, &GeoTiffDirectoryError{Offset: 0, Reason: fmt.Sprintf("unknown key directory version %d", dir.Version)}
	}

	count := int(binary.LittleEndian.Uint16(b[6:8]))
	if need := directoryHeaderSize + count*keyEntrySize; len(b) < need {
		return nil, &GeoTiffDirectoryError{
			Offset: len(b),
			Reason: fmt.Sprintf("%d keys declared, need %d bytes, have %d", count, need, len(b)),
		}
	}

	dir.Entries = make([]KeyEntry, count)
	for i := range dir.Entries {
		p := b[directoryHeaderSize+i*keyEntrySize:]
		dir.Entries[i] = KeyEntry{
			Key:      GeoKey(binary.LittleEndian.Uint16(p[0:2])),
			Location: TagLocation(binary.LittleEndian.Uint16(p[2:4])),
			Count:    binary.LittleEndian.Uint16(p[4:6]),
			Value:    binary.LittleEndian.Uint16(p[6:8]),
		}
	}

	return dir, nil
}

// Lookup returns the first entry for key.
func (d *KeyDirectory) Lookup(key GeoKey) (KeyEntry, bool) {
	for _, e := range d.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return KeyEntry{}, false
}

func isCRSKey(k GeoKey) bool {
	return k == KeyProjectedCSType || k == KeyGeographicType || k == KeyVerticalCSType
}

// entryOffset is the byte offset of entry i, for error reporting.
func entryOffset(i int) int {
	return directoryHeaderSize + i*keyEntrySize
}

// crsCodes walks the directory for the horizontal and vertical CRS keys.
func (d *KeyDirectory) crsCodes() (rawCodes, error) {
	// Parameter block references win over everything else in the directory.
	for _, e := range d.Entries {
		if isCRSKey(e.Key) && (e.Location == LocationASCII || e.Location == LocationDouble) {
			return rawCodes{}, &UnimplementedGeoTiffDataError{Data: e.data()}
		}
	}

	var (
		raw                   rawCodes
		projected, geographic *KeyEntry
		sawCRSKey             bool
	)
	for i := range d.Entries {
		e := &d.Entries[i]
		switch {
		case e.Key == KeyModelType:
			if e.Inline() && e.Value == userDefined {
				return rawCodes{}, &UnsupportedCRSError{Keyword: e.Key.String(), Reason: "user-defined model type"}
			}
			continue
		case !isCRSKey(e.Key):
			continue
		}

		if !e.Inline() {
			return rawCodes{}, &GeoTiffDirectoryError{
				Offset: entryOffset(i),
				Reason: fmt.Sprintf("%v has unknown tag location %d", e.Key, uint16(e.Location)),
			}
		}
		sawCRSKey = true

		switch e.Key {
		case KeyProjectedCSType:
			if projected == nil {
				projected = e
			}
		case KeyGeographicType:
			if geographic == nil {
				geographic = e
			}
		case KeyVerticalCSType:
			if !raw.hasVertical {
				raw.vertical = uint32(e.Value)
				raw.hasVertical = true
			}
		}
	}

	// A projected CRS carries its own geographic base; prefer it.
	horizontal := projected
	if horizontal == nil {
		horizontal = geographic
	}
	if horizontal != nil {
		if horizontal.Value == userDefined {
			return rawCodes{}, &UnsupportedCRSError{Keyword: horizontal.Key.String(), Reason: "user-defined CRS"}
		}
		raw.horizontal = uint32(horizontal.Value)
		raw.hasHorizontal = true
	}

	if !sawCRSKey {
		return rawCodes{}, errNoGeoKey
	}
	return raw, nil
}

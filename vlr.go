package lascrs

import "strings"

// LAS record ids of the LASF_Projection records.
const (
	ProjectionUserID = "LASF_Projection"

	RecordWKT             uint16 = 2112
	RecordGeoKeyDirectory uint16 = 34735
	RecordGeoDoubleParams uint16 = 34736
	RecordGeoASCIIParams  uint16 = 34737
)

// VLR is a variable length record (or extended VLR) as extracted by a LAS
// reader.
type VLR struct {
	UserID   string
	RecordID uint16
	Data     []byte
}

// VLRHeader is a Header over a set of extracted records.
type VLRHeader struct {
	WKT             []byte
	GeoKeyDirectory []byte
	// GeoDoubleParams and GeoASCIIParams are kept for callers that want to
	// inspect them. They are never decoded.
	GeoDoubleParams []byte
	GeoASCIIParams  []byte
	// WKTFlag is the global encoding WKT bit, when known.
	WKTFlag         *bool
}

// FromVLRs collects the LASF_Projection records from vlrs. When a record id
// appears more than once the last one wins, as EVLRs follow VLRs.
func FromVLRs(vlrs []VLR) *VLRHeader {
	h := &VLRHeader{}
	for _, v := range vlrs {
		if !strings.EqualFold(strings.TrimRight(v.UserID, "\x00"), ProjectionUserID) {
			continue
		}
		switch v.RecordID {
		case RecordWKT:
			h.WKT = v.Data
		case RecordGeoKeyDirectory:
			h.GeoKeyDirectory = v.Data
		case RecordGeoDoubleParams:
			h.GeoDoubleParams = v.Data
		case RecordGeoASCIIParams:
			h.GeoASCIIParams = v.Data
		}
	}
	return h
}

func (h *VLRHeader) GeoTiffCRS() ([]byte, bool) {
	return h.GeoKeyDirectory, h.GeoKeyDirectory != nil
}

func (h *VLRHeader) WKTCRS() ([]byte, bool) {
	return h.WKT, h.WKT != nil
}

// HasWKTCRS implements WKTFlagger. Without a known flag it agrees with the
// records so no warning is logged.
func (h *VLRHeader) HasWKTCRS() bool {
	if h.WKTFlag == nil {
		return h.WKT != nil
	}
	return *h.WKTFlag
}

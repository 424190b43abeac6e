package lascrs

import "math"

// validate turns parser output into a CRS. An out of range vertical code is
// dropped; an out of range horizontal code is an error carrying the would-be
// result.
func validate(raw rawCodes) (CRS, error) {
	var crs CRS
	if raw.hasVertical && InEPSGRange(raw.vertical) {
		crs.Vertical = uint16(raw.vertical)
	}

	if !raw.hasHorizontal {
		return CRS{}, ErrMissingHorizontal
	}
	if !InEPSGRange(raw.horizontal) {
		if raw.horizontal <= math.MaxUint16 {
			crs.Horizontal = uint16(raw.horizontal)
		}
		return CRS{}, &BadHorizontalCodeError{CRS: crs, Code: raw.horizontal}
	}

	crs.Horizontal = uint16(raw.horizontal)
	return crs, nil
}

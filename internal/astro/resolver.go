// Package astro implements the positional arithmetic every higher-level
// reading depends on: longitude to sign, house, nakshatra and pada.
// All functions are total over finite inputs and share one normalization
// rule, so sign/house math is never reimplemented inline elsewhere.
package astro

import (
	"math"

	"astro-whatsapp-bot/internal/domain"
)

// Segment widths in arc-seconds. Boundary comparisons are done on
// floor-scaled integers: 1/3600 degree divides the sign (30 deg),
// nakshatra (13 deg 20 min) and pada (3 deg 20 min) widths exactly,
// so a longitude arbitrarily close below a boundary can never flip
// into the next segment through floating error.
const (
	arcsecPerDegree = 3600
	signArcsec      = 30 * arcsecPerDegree      // 108000
	nakshatraArcsec = 1296000 / 27              // 48000
	padaArcsec      = nakshatraArcsec / 4       // 12000
)

// Normalize maps any finite longitude into [0, 360).
func Normalize(longitude float64) float64 {
	l := math.Mod(longitude, 360)
	if l < 0 {
		l += 360
	}
	// For a negative value within half an ulp of zero the fold rounds to
	// exactly 360; wrap it onto the low boundary to keep the range contract.
	if l >= 360 {
		l = 0
	}
	return l
}

// arcsecOf converts a longitude to whole arc-seconds, rounding down.
func arcsecOf(longitude float64) int64 {
	return int64(math.Floor(Normalize(longitude) * arcsecPerDegree))
}

// SignOf resolves a longitude into its zodiac sign.
// Exact boundaries round down into the next segment: 30.0 is Taurus,
// 0.0 (and 360.0) is Aries.
func SignOf(longitude float64) domain.SignPlacement {
	idx := int(arcsecOf(longitude) / signArcsec)
	return domain.SignPlacement{
		SignIndex:  idx,
		Sign:       SignNames[idx],
		SignDegree: Normalize(longitude) - float64(idx)*30,
	}
}

// HouseOf resolves a longitude into its whole-sign house counted from the
// ascendant. Both inputs are normalized first; a body conjunct the
// ascendant is in house 1.
func HouseOf(longitude, ascendant float64) domain.HousePlacement {
	rel := Normalize(Normalize(longitude) - Normalize(ascendant))
	return domain.HousePlacement{
		HouseNumber: int(arcsecOf(rel)/signArcsec) + 1,
	}
}

// NakshatraOf resolves a longitude into its lunar mansion and pada.
func NakshatraOf(longitude float64) domain.NakshatraPlacement {
	arcsec := arcsecOf(longitude)
	idx := int(arcsec / nakshatraArcsec)
	entry := Nakshatras[idx]
	return domain.NakshatraPlacement{
		Index: idx,
		Name:  entry.Name,
		Lord:  entry.Lord,
		Pada:  int(arcsec%nakshatraArcsec/padaArcsec) + 1,
	}
}

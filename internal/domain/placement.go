package domain

// BodyPosition is one body's raw ephemeris output at one instant.
// Read-only after the ephemeris call that produced it.
type BodyPosition struct {
	Longitude float64  // ecliptic longitude in degrees, normalized to [0, 360)
	Speed     *float64 // degrees/day, negative means retrograde; nil if the source omits it
}

// SignPlacement is a longitude resolved into a zodiac sign.
type SignPlacement struct {
	SignIndex  int     // 0-11, Aries=0
	Sign       string  // sign name for rendering
	SignDegree float64 // degrees into the sign, [0, 30)
}

// HousePlacement is a longitude resolved into a whole-sign house
// counted from the ascendant.
type HousePlacement struct {
	HouseNumber int // 1-12
}

// NakshatraPlacement is a longitude resolved into one of the 27 lunar
// mansions plus its quarter.
type NakshatraPlacement struct {
	Index int    // 0-26, Ashwini=0
	Name  string // nakshatra name
	Lord  Body   // ruling dasha lord
	Pada  int    // quarter within the nakshatra, 1-4
}

package domain

// BodyPlacement bundles one body's raw position with its derived placements.
// Unavailable marks a body whose ephemeris lookup failed; such a body carries
// no position data but stays in the chart so callers can tell "failed" from
// "not requested".
type BodyPlacement struct {
	Body        Body
	Position    BodyPosition
	Sign        SignPlacement
	House       *HousePlacement // nil when the ascendant was unavailable
	Unavailable bool
	Reason      string // why the body is unavailable, empty otherwise
}

// Chart is the assembled natal chart for one instant and place.
// Created once per request and never mutated afterward; safe to share.
type Chart struct {
	ChartID   string
	Instant   Instant
	Location  GeoCoordinate
	JulianDay float64 // computed exactly once, shared by every body lookup

	Bodies map[Body]*BodyPlacement

	Ascendant     *float64       // ascendant ecliptic degree, nil if unavailable
	AscendantSign *SignPlacement // nil if ascendant unavailable

	// Moon-derived timing. Nil when the Moon was not requested or unavailable,
	// or (for Dasha) when elapsed time is indeterminate.
	BirthNakshatra *NakshatraPlacement
	CurrentDasha   *DashaPeriod
	DashaNote      string // reason CurrentDasha is nil, empty otherwise

	GeneratedAt int64 // Unix timestamp in milliseconds
}

package domain

// Instant represents a birth or query moment in local civil time.
// Calendar fields are validated before Julian Day conversion; out-of-range
// values are rejected, never clamped.
type Instant struct {
	Year   int
	Month  int     // 1-12
	Day    int     // 1-31, checked against month length
	Hour   int     // 0-23 local time
	Minute int     // 0-59
	Offset float64 // UTC offset in hours, fractional allowed (e.g. 5.5), [-12, 14]
}

// GeoCoordinate is a geographic position in degrees.
// Produced by the geocoding collaborator; required for house computation.
type GeoCoordinate struct {
	Latitude  float64 // positive north
	Longitude float64 // positive east
}

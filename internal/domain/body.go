package domain

// Body identifies a celestial body used in chart computation.
type Body string

const (
	BodySun     Body = "Sun"
	BodyMoon    Body = "Moon"
	BodyMars    Body = "Mars"
	BodyMercury Body = "Mercury"
	BodyJupiter Body = "Jupiter"
	BodyVenus   Body = "Venus"
	BodySaturn  Body = "Saturn"
	BodyRahu    Body = "Rahu"
	BodyKetu    Body = "Ketu"
)

// DefaultBodies is the standard body set for a natal chart.
// Rahu and Ketu are the lunar nodes; Ketu is always opposite Rahu.
var DefaultBodies = []Body{
	BodySun, BodyMoon, BodyMars, BodyMercury,
	BodyJupiter, BodyVenus, BodySaturn, BodyRahu, BodyKetu,
}

// Valid reports whether b is a known body.
func (b Body) Valid() bool {
	switch b {
	case BodySun, BodyMoon, BodyMars, BodyMercury,
		BodyJupiter, BodyVenus, BodySaturn, BodyRahu, BodyKetu:
		return true
	}
	return false
}

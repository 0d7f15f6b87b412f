// Package ephemeris defines the planetary-position collaborators the chart
// assembler depends on. The actual ephemeris computation is a black box
// behind these interfaces: an HTTP sidecar in production, a deterministic
// stub in tests and offline mode.
package ephemeris

import (
	"context"
	"errors"

	"astro-whatsapp-bot/internal/domain"
)

// ErrUnavailable is returned when a body's longitude cannot be computed.
// The chart assembler records the body as unavailable and carries on.
var ErrUnavailable = errors.New("ephemeris unavailable")

// Source provides ecliptic longitudes for celestial bodies.
type Source interface {
	// Longitude returns the body's position at the given Julian Day.
	Longitude(ctx context.Context, body domain.Body, julianDay float64) (domain.BodyPosition, error)
}

// AscendantSource provides the rising degree for a time and place.
type AscendantSource interface {
	// Ascendant returns the ecliptic degree rising at the given Julian Day
	// and geographic position.
	Ascendant(ctx context.Context, julianDay float64, lat, lon float64) (float64, error)
}

// Provider combines both collaborators; the HTTP client and the stub
// implement it.
type Provider interface {
	Source
	AscendantSource
}

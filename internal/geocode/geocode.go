// Package geocode resolves free-text place names into coordinates and a
// UTC offset. Resolution happens before chart assembly; the positional
// core never sees place strings.
package geocode

import (
	"context"
	"errors"

	"astro-whatsapp-bot/internal/domain"
)

// ErrNotFound is returned when a place cannot be resolved.
var ErrNotFound = errors.New("place not found")

// Place is a resolved location.
type Place struct {
	DisplayName string
	Location    domain.GeoCoordinate
	UTCOffset   float64 // hours, fractional allowed
}

// Geocoder resolves place names.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (*Place, error)
}

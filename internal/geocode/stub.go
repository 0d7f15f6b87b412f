package geocode

import (
	"context"
	"strings"
	"sync"

	"astro-whatsapp-bot/internal/domain"
)

func domainCoordinate(lat, lon float64) domain.GeoCoordinate {
	return domain.GeoCoordinate{Latitude: lat, Longitude: lon}
}

// Stub implements Geocoder from a fixed table. Used in tests and offline
// mode; ships with a handful of large cities so the chart CLI works
// without a geocoding service.
type Stub struct {
	mu     sync.RWMutex
	places map[string]Place
}

// NewStub creates a stub geocoder with built-in places.
func NewStub() *Stub {
	s := &Stub{places: make(map[string]Place)}
	for _, p := range []Place{
		{DisplayName: "New Delhi, India", Location: domainCoordinate(28.6139, 77.2090), UTCOffset: 5.5},
		{DisplayName: "Mumbai, India", Location: domainCoordinate(19.0760, 72.8777), UTCOffset: 5.5},
		{DisplayName: "Chennai, India", Location: domainCoordinate(13.0827, 80.2707), UTCOffset: 5.5},
		{DisplayName: "London, United Kingdom", Location: domainCoordinate(51.5074, -0.1278), UTCOffset: 0},
		{DisplayName: "New York, United States", Location: domainCoordinate(40.7128, -74.0060), UTCOffset: -5},
	} {
		s.Add(p)
	}
	return s
}

var _ Geocoder = (*Stub)(nil)

// Add registers a place under the first word of its display name.
func (s *Stub) Add(p Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeKey(strings.SplitN(p.DisplayName, ",", 2)[0])
	s.places[key] = p
}

// Resolve looks the place up in the fixed table.
func (s *Stub) Resolve(_ context.Context, place string) (*Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.places[normalizeKey(place)]
	if !ok {
		return nil, ErrNotFound
	}
	out := p
	return &out, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

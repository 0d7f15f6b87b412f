// Package stub provides a deterministic ephemeris for tests and offline
// mode. Longitudes follow mean motion from the J2000 epoch, which is
// accurate enough for fixtures and keeps every derived placement stable
// across runs. Not suitable for real readings.
package stub

import (
	"context"
	"sync"

	"astro-whatsapp-bot/internal/astro"
	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/ephemeris"
)

const j2000 = 2451545.0

// meanElements holds mean longitude at J2000 and mean daily motion.
type meanElements struct {
	epochLongitude float64
	dailyMotion    float64
}

// Mean elements per body. Rahu regresses; Ketu is handled as Rahu+180.
var elements = map[domain.Body]meanElements{
	domain.BodySun:     {280.460, 0.9856474},
	domain.BodyMoon:    {218.316, 13.1763966},
	domain.BodyMars:    {355.433, 0.5240208},
	domain.BodyMercury: {252.251, 4.0923344},
	domain.BodyJupiter: {34.351, 0.0830853},
	domain.BodyVenus:   {181.980, 1.6021302},
	domain.BodySaturn:  {50.077, 0.0334443},
	domain.BodyRahu:    {125.045, -0.0529539},
}

// Provider implements ephemeris.Provider deterministically.
type Provider struct {
	mu sync.Mutex

	// overrides pin a body to a fixed longitude regardless of time.
	overrides map[domain.Body]float64
	// failures force ErrUnavailable for a body.
	failures map[domain.Body]error

	ascendantErr error

	// LongitudeCalls records every (body, julianDay) lookup, in order.
	LongitudeCalls []LongitudeCall
}

// LongitudeCall is one recorded lookup.
type LongitudeCall struct {
	Body      domain.Body
	JulianDay float64
}

// NewProvider creates a new stub ephemeris.
func NewProvider() *Provider {
	return &Provider{
		overrides: make(map[domain.Body]float64),
		failures:  make(map[domain.Body]error),
	}
}

var _ ephemeris.Provider = (*Provider)(nil)

// SetLongitude pins a body to a fixed longitude.
func (p *Provider) SetLongitude(body domain.Body, longitude float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[body] = longitude
}

// FailBody makes lookups for a body return the given error.
func (p *Provider) FailBody(body domain.Body, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[body] = err
}

// FailAscendant makes ascendant lookups return the given error.
func (p *Provider) FailAscendant(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ascendantErr = err
}

// Longitude returns the body's mean-motion longitude at the Julian Day.
func (p *Provider) Longitude(_ context.Context, body domain.Body, julianDay float64) (domain.BodyPosition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.LongitudeCalls = append(p.LongitudeCalls, LongitudeCall{Body: body, JulianDay: julianDay})

	if err, ok := p.failures[body]; ok {
		return domain.BodyPosition{}, err
	}
	if l, ok := p.overrides[body]; ok {
		return domain.BodyPosition{Longitude: astro.Normalize(l)}, nil
	}

	if body == domain.BodyKetu {
		rahu := meanLongitude(domain.BodyRahu, julianDay)
		speed := elements[domain.BodyRahu].dailyMotion
		return domain.BodyPosition{Longitude: astro.Normalize(rahu + 180), Speed: &speed}, nil
	}

	el, ok := elements[body]
	if !ok {
		return domain.BodyPosition{}, ephemeris.ErrUnavailable
	}
	speed := el.dailyMotion
	return domain.BodyPosition{Longitude: meanLongitude(body, julianDay), Speed: &speed}, nil
}

// Ascendant returns a coarse sidereal-time-based rising degree.
// Deterministic, fixtures only.
func (p *Provider) Ascendant(_ context.Context, julianDay, lat, lon float64) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ascendantErr != nil {
		return 0, p.ascendantErr
	}

	lst := 280.46061837 + 360.98564736629*(julianDay-j2000) + lon
	_ = lat // whole-sign houses only need the rising degree, not latitude-corrected cusps
	return astro.Normalize(lst + 90), nil
}

func meanLongitude(body domain.Body, julianDay float64) float64 {
	el := elements[body]
	return astro.Normalize(el.epochLongitude + el.dailyMotion*(julianDay-j2000))
}

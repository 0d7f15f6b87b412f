// Package chart assembles natal charts from the injected ephemeris
// collaborators and the positional core.
package chart

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/astro"
	"astro-whatsapp-bot/internal/dasha"
	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/ephemeris"
	"astro-whatsapp-bot/internal/idhash"
	"astro-whatsapp-bot/internal/observability"
)

// Assembler builds charts. It performs no I/O of its own: all external
// lookups go through the injected ephemeris collaborators, exactly one
// round per Assemble call. No caching, no retries.
type Assembler struct {
	source    ephemeris.Source
	ascendant ephemeris.AscendantSource
	logger    *zap.SugaredLogger
}

// Options configures an Assembler.
type Options struct {
	Source    ephemeris.Source
	Ascendant ephemeris.AscendantSource
	Logger    *zap.SugaredLogger
}

// NewAssembler creates a chart assembler.
func NewAssembler(opts Options) *Assembler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Assembler{
		source:    opts.Source,
		ascendant: opts.Ascendant,
		logger:    logger,
	}
}

// Assemble computes a chart for the given birth instant and place.
//
// The Julian Day is derived exactly once and shared by every body lookup,
// so all bodies are evaluated at the identical time coordinate. A failed
// ephemeris lookup marks that body unavailable and assembly continues;
// only an invalid instant fails the whole call.
func (a *Assembler) Assemble(ctx context.Context, instant domain.Instant, location domain.GeoCoordinate, bodies []domain.Body, now time.Time) (*domain.Chart, error) {
	jd, err := astro.JulianDay(instant)
	if err != nil {
		return nil, err
	}

	if len(bodies) == 0 {
		bodies = domain.DefaultBodies
	}

	c := &domain.Chart{
		ChartID:     idhash.ComputeChartID(instant, location, bodies),
		Instant:     instant,
		Location:    location,
		JulianDay:   jd,
		Bodies:      make(map[domain.Body]*domain.BodyPlacement, len(bodies)),
		GeneratedAt: now.UnixMilli(),
	}

	ascDeg, ascErr := a.ascendant.Ascendant(ctx, jd, location.Latitude, location.Longitude)
	if ascErr != nil {
		a.logger.Warnw("ascendant unavailable, houses omitted", "chart_id", c.ChartID, "error", ascErr)
	} else {
		asc := astro.Normalize(ascDeg)
		sign := astro.SignOf(asc)
		c.Ascendant = &asc
		c.AscendantSign = &sign
	}

	for _, body := range bodies {
		placement := &domain.BodyPlacement{Body: body}
		c.Bodies[body] = placement

		pos, err := a.source.Longitude(ctx, body, jd)
		if err != nil {
			placement.Unavailable = true
			placement.Reason = err.Error()
			observability.RecordBodyUnavailable(string(body))
			a.logger.Warnw("body unavailable", "chart_id", c.ChartID, "body", body, "error", err)
			continue
		}

		pos.Longitude = astro.Normalize(pos.Longitude)
		placement.Position = pos
		placement.Sign = astro.SignOf(pos.Longitude)
		if ascErr == nil {
			house := astro.HouseOf(pos.Longitude, *c.Ascendant)
			placement.House = &house
		}
	}

	a.deriveTiming(c, now)

	observability.RecordChartAssembled()
	return c, nil
}

// deriveTiming fills the Moon-derived nakshatra and current mahadasha.
func (a *Assembler) deriveTiming(c *domain.Chart, now time.Time) {
	moon, ok := c.Bodies[domain.BodyMoon]
	if !ok {
		c.DashaNote = "moon not requested"
		return
	}
	if moon.Unavailable {
		c.DashaNote = "moon position unavailable"
		return
	}

	nak := astro.NakshatraOf(moon.Position.Longitude)
	c.BirthNakshatra = &nak

	nowJD := julianDayOfTime(now)
	elapsed := astro.ElapsedYears(c.JulianDay, nowJD)

	period, err := dasha.Current(nak.Index, elapsed)
	if err != nil {
		// Explicit absence, never a default planet.
		c.DashaNote = fmt.Sprintf("indeterminate: %v", err)
		return
	}
	c.CurrentDasha = &period
}

// julianDayOfTime converts a wall-clock time to a Julian Day.
func julianDayOfTime(t time.Time) float64 {
	u := t.UTC()
	i := domain.Instant{
		Year:   u.Year(),
		Month:  int(u.Month()),
		Day:    u.Day(),
		Hour:   u.Hour(),
		Minute: u.Minute(),
	}
	jd, err := astro.JulianDay(i)
	if err != nil {
		// Unreachable for a time.Time-derived instant.
		return 0
	}
	return jd + float64(u.Second())/86400
}

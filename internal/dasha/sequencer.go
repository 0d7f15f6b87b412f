// Package dasha derives Vimshottari mahadasha periods from a birth
// nakshatra and elapsed time. Pure functions over a fixed cyclic table;
// identical inputs always produce identical output.
package dasha

import (
	"errors"
	"math"

	"astro-whatsapp-bot/internal/domain"
)

// ErrIndeterminate is returned for negative or non-finite elapsed time,
// e.g. a birth instant in the future relative to the query. Callers get an
// explicit error instead of a plausible-looking default period.
var ErrIndeterminate = errors.New("dasha indeterminate: elapsed time negative or not finite")

// SequenceEntry is one lord in the fixed cycle.
type SequenceEntry struct {
	Lord  domain.Body
	Years float64
}

// Sequence is the traditional 9-lord cycle. The 27 nakshatras partition
// into 9 groups of 3; nakshatra index mod 9 selects the starting lord.
var Sequence = [9]SequenceEntry{
	{domain.BodyKetu, 7},
	{domain.BodyVenus, 20},
	{domain.BodySun, 6},
	{domain.BodyMoon, 10},
	{domain.BodyMars, 7},
	{domain.BodyRahu, 18},
	{domain.BodyJupiter, 16},
	{domain.BodySaturn, 19},
	{domain.BodyMercury, 17},
}

// TotalCycleYears is the sum of all nine periods.
const TotalCycleYears = 120.0

// minRemainingYears keeps a just-expired period from being reported as
// "0 years remaining".
const minRemainingYears = 1e-9

// LordOf returns the starting dasha lord for a birth nakshatra.
func LordOf(nakshatraIndex int) domain.Body {
	return Sequence[nakshatraIndex%9].Lord
}

// Current returns the running mahadasha for a birth nakshatra and elapsed
// years since birth. Elapsed time wraps modulo the 120-year cycle.
func Current(birthNakshatraIndex int, elapsedYears float64) (domain.DashaPeriod, error) {
	if birthNakshatraIndex < 0 || birthNakshatraIndex > 26 {
		return domain.DashaPeriod{}, ErrIndeterminate
	}
	if elapsedYears < 0 || math.IsNaN(elapsedYears) || math.IsInf(elapsedYears, 0) {
		return domain.DashaPeriod{}, ErrIndeterminate
	}

	elapsed := math.Mod(elapsedYears, TotalCycleYears)
	start := birthNakshatraIndex % 9

	cumulative := 0.0
	for i := 0; i < len(Sequence); i++ {
		entry := Sequence[(start+i)%9]
		cumulative += entry.Years
		if elapsed < cumulative {
			remaining := cumulative - elapsed
			if remaining < minRemainingYears {
				remaining = minRemainingYears
			}
			return domain.DashaPeriod{
				Lord:           entry.Lord,
				DurationYears:  entry.Years,
				RemainingYears: remaining,
			}, nil
		}
	}

	// Unreachable: elapsed < 120 and the cumulative walk reaches exactly 120.
	return domain.DashaPeriod{}, ErrIndeterminate
}

// TimelinePeriod is one mahadasha span measured in years since birth.
type TimelinePeriod struct {
	Lord       domain.Body
	StartYears float64
	EndYears   float64
}

// Timeline returns the ordered mahadasha periods covering [0, spanYears]
// for a birth nakshatra. Used for the dasha timeline reading.
func Timeline(birthNakshatraIndex int, spanYears float64) ([]TimelinePeriod, error) {
	if birthNakshatraIndex < 0 || birthNakshatraIndex > 26 {
		return nil, ErrIndeterminate
	}
	if spanYears < 0 || math.IsNaN(spanYears) || math.IsInf(spanYears, 0) {
		return nil, ErrIndeterminate
	}

	start := birthNakshatraIndex % 9
	var out []TimelinePeriod
	at := 0.0
	for i := 0; at <= spanYears; i++ {
		entry := Sequence[(start+i)%9]
		out = append(out, TimelinePeriod{
			Lord:       entry.Lord,
			StartYears: at,
			EndYears:   at + entry.Years,
		})
		at += entry.Years
	}
	return out, nil
}

package astro

import (
	"errors"
	"fmt"

	"astro-whatsapp-bot/internal/domain"
)

// ErrInvalidInstant is returned when calendar fields are out of range.
// Invalid instants are rejected before Julian Day conversion, never clamped.
var ErrInvalidInstant = errors.New("invalid instant")

// daysInMonth returns the Gregorian month length.
func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 0
}

// ValidateInstant checks all calendar fields of an instant.
func ValidateInstant(i domain.Instant) error {
	if i.Month < 1 || i.Month > 12 {
		return fmt.Errorf("%w: month %d out of range [1,12]", ErrInvalidInstant, i.Month)
	}
	if i.Day < 1 || i.Day > daysInMonth(i.Year, i.Month) {
		return fmt.Errorf("%w: day %d out of range for %d-%02d", ErrInvalidInstant, i.Day, i.Year, i.Month)
	}
	if i.Hour < 0 || i.Hour > 23 {
		return fmt.Errorf("%w: hour %d out of range [0,23]", ErrInvalidInstant, i.Hour)
	}
	if i.Minute < 0 || i.Minute > 59 {
		return fmt.Errorf("%w: minute %d out of range [0,59]", ErrInvalidInstant, i.Minute)
	}
	if i.Offset < -12 || i.Offset > 14 {
		return fmt.Errorf("%w: utc offset %.2f out of range [-12,14]", ErrInvalidInstant, i.Offset)
	}
	return nil
}

// julianDayNumber computes the Julian Day Number at noon for a Gregorian
// calendar date, via the USNO integer formula. Relies on Go's
// truncate-toward-zero integer division, same as the original Fortran.
func julianDayNumber(year, month, day int) int {
	return day - 32075 +
		1461*(year+4800+(month-14)/12)/4 +
		367*(month-2-(month-14)/12*12)/12 -
		3*((year+4900+(month-14)/12)/100)/4
}

// JulianDay converts a validated instant into a continuous Julian Day
// coordinate. The local time is shifted to UT by the instant's offset;
// the result is immutable once derived and shared across all ephemeris
// lookups for a chart.
func JulianDay(i domain.Instant) (float64, error) {
	if err := ValidateInstant(i); err != nil {
		return 0, err
	}
	jdn := julianDayNumber(i.Year, i.Month, i.Day)
	ut := float64(i.Hour) + float64(i.Minute)/60 - i.Offset
	return float64(jdn) + (ut-12)/24, nil
}

// ElapsedYears converts a Julian Day span into mean solar years.
func ElapsedYears(fromJD, toJD float64) float64 {
	return (toJD - fromJD) / 365.25
}

package whatsapp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Birth-detail parsing. Inputs come from chat, so formats are forgiving:
// dates accept dot, slash or dash separators; times are 24-hour with an
// optional UTC offset ("10:30", "10:30 +5.5", "10:30 +05:30").

var (
	dateRe   = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{4})$`)
	timeRe   = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s+([+-]\d{1,2}(?::\d{2}|\.\d+)?))?$`)
	offsetRe = regexp.MustCompile(`^([+-])(\d{1,2})(?::(\d{2})|\.(\d+))?$`)
)

// parseDate parses a day-first calendar date.
func parseDate(text string) (year, month, day int, err error) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, 0, fmt.Errorf("unrecognized date %q, expected DD.MM.YYYY", text)
	}
	day, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	year, _ = strconv.Atoi(m[3])
	return year, month, day, nil
}

// parseTime parses a 24-hour clock time with optional UTC offset.
// hasOffset reports whether the user supplied one.
func parseTime(text string) (hour, minute int, offset float64, hasOffset bool, err error) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, 0, false, fmt.Errorf("unrecognized time %q, expected HH:MM", text)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, 0, false, fmt.Errorf("time %q out of range", text)
	}
	if m[3] == "" {
		return hour, minute, 0, false, nil
	}
	offset, err = parseOffset(m[3])
	if err != nil {
		return 0, 0, 0, false, err
	}
	return hour, minute, offset, true, nil
}

// parseOffset parses "+5.5", "-8", "+05:30" into fractional hours.
func parseOffset(text string) (float64, error) {
	m := offsetRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, fmt.Errorf("unrecognized UTC offset %q", text)
	}
	hours, _ := strconv.Atoi(m[2])
	offset := float64(hours)
	switch {
	case m[3] != "": // +05:30 form
		mins, _ := strconv.Atoi(m[3])
		if mins > 59 {
			return 0, fmt.Errorf("unrecognized UTC offset %q", text)
		}
		offset += float64(mins) / 60
	case m[4] != "": // +5.5 form
		frac, err := strconv.ParseFloat("0."+m[4], 64)
		if err != nil {
			return 0, fmt.Errorf("unrecognized UTC offset %q", text)
		}
		offset += frac
	}
	if m[1] == "-" {
		offset = -offset
	}
	if offset < -12 || offset > 14 {
		return 0, fmt.Errorf("UTC offset %q out of range", text)
	}
	return offset, nil
}

// Package reading turns charts and static content tables into the
// natural-language texts the bot sends. Generators are pure: the same
// inputs always render the same text.
package reading

import (
	"fmt"
	"strings"
	"time"

	"astro-whatsapp-bot/internal/astro"
)

// DailyHoroscope renders the horoscope for a sign on a given date.
// Deterministic per (sign, date): fragment choice is seeded from both, so
// every subscriber with the same sign gets the same text on the same day
// and a re-send is identical to the original.
func DailyHoroscope(signIndex int, date time.Time) string {
	signIndex = ((signIndex % 12) + 12) % 12
	p := signProfiles[signIndex]

	seed := int(date.Year())*1000 + date.YearDay() + signIndex*37
	focus := p.Focus[seed%len(p.Focus)]
	advice := p.Advice[(seed/7)%len(p.Advice)]
	trait := p.Traits[(seed/49)%len(p.Traits)]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* — %s\n\n", p.Name, date.Format("Mon, 2 Jan 2006")))
	sb.WriteString(fmt.Sprintf("Today puts your %s side to work. Expect %s.\n\n", trait, focus))
	sb.WriteString(advice)
	sb.WriteString(fmt.Sprintf("\n\n_%s sign, ruled by %s._", p.Element, p.Ruler))
	return sb.String()
}

// SignName returns the display name for a sign index.
func SignName(signIndex int) string {
	signIndex = ((signIndex % 12) + 12) % 12
	return astro.SignNames[signIndex]
}

// SignIndexOf parses a sign name, case-insensitive. Returns -1 when the
// name is not a zodiac sign.
func SignIndexOf(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, s := range astro.SignNames {
		if strings.ToLower(s) == name {
			return i
		}
	}
	return -1
}

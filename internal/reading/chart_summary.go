package reading

import (
	"fmt"
	"strings"

	"astro-whatsapp-bot/internal/domain"
)

// RenderChartSummary renders a natal chart as WhatsApp-flavored text.
// Unavailable bodies are listed explicitly rather than dropped, so the
// user can tell a partial reading from a complete one.
func RenderChartSummary(c *domain.Chart) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*Birth Chart* — %02d %s %d, %02d:%02d (UTC%+.1f)\n",
		c.Instant.Day, monthName(c.Instant.Month), c.Instant.Year,
		c.Instant.Hour, c.Instant.Minute, c.Instant.Offset))

	if c.AscendantSign != nil {
		sb.WriteString(fmt.Sprintf("Ascendant: %s %.1f°\n", c.AscendantSign.Sign, c.AscendantSign.SignDegree))
	} else {
		sb.WriteString("Ascendant: unavailable (houses omitted)\n")
	}
	sb.WriteString("\n")

	var unavailable []string
	for _, body := range domain.DefaultBodies {
		p, ok := c.Bodies[body]
		if !ok {
			continue
		}
		if p.Unavailable {
			unavailable = append(unavailable, string(body))
			continue
		}
		line := fmt.Sprintf("%s: %s %.1f°", body, p.Sign.Sign, p.Sign.SignDegree)
		if p.House != nil {
			line += fmt.Sprintf(", house %d", p.House.HouseNumber)
		}
		if p.Position.Speed != nil && *p.Position.Speed < 0 {
			line += " (retrograde)"
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if c.BirthNakshatra != nil {
		n := c.BirthNakshatra
		sb.WriteString(fmt.Sprintf("\nMoon nakshatra: %s (pada %d) — %s\n",
			n.Name, n.Pada, nakshatraThemes[n.Index]))
	}

	if c.CurrentDasha != nil {
		d := c.CurrentDasha
		sb.WriteString(fmt.Sprintf("Current mahadasha: %s, about %.1f years remaining\n",
			d.Lord, d.RemainingYears))
	} else if c.DashaNote != "" {
		sb.WriteString(fmt.Sprintf("Current mahadasha: cannot be determined (%s)\n", c.DashaNote))
	}

	if len(unavailable) > 0 {
		sb.WriteString(fmt.Sprintf("\nUnavailable right now: %s. Ask again later for a complete chart.\n",
			strings.Join(unavailable, ", ")))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func monthName(m int) string {
	names := [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if m < 1 || m > 12 {
		return "?"
	}
	return names[m-1]
}

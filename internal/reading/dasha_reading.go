package reading

import (
	"fmt"
	"strings"

	"astro-whatsapp-bot/internal/astro"
	"astro-whatsapp-bot/internal/dasha"
	"astro-whatsapp-bot/internal/domain"
)

// RenderDashaReading renders the current mahadasha plus a short timeline.
// birthYear anchors the timeline to calendar years for readability.
func RenderDashaReading(nak domain.NakshatraPlacement, current domain.DashaPeriod, timeline []dasha.TimelinePeriod, birthYear int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*Dasha Reading* — born under %s, %s\n\n",
		nak.Name, nakshatraThemes[nak.Index]))

	sb.WriteString(fmt.Sprintf("You are in your *%s mahadasha*: a period of %s. ",
		current.Lord, dashaThemes[current.Lord]))
	sb.WriteString(fmt.Sprintf("About %.1f of its %.0f years remain.\n\n", current.RemainingYears, current.DurationYears))

	if r, ok := remedies[current.Lord]; ok {
		sb.WriteString(fmt.Sprintf("Remedy for this period: %s\n\n", r))
	}

	if len(timeline) > 0 {
		sb.WriteString("Timeline:\n")
		for _, p := range timeline {
			sb.WriteString(fmt.Sprintf("- %s: %d to %d\n",
				p.Lord, birthYear+int(p.StartYears), birthYear+int(p.EndYears)))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderIndeterminateDasha is the explicit no-answer text: the bot never
// substitutes a default planet for a period it cannot compute.
func RenderIndeterminateDasha(note string) string {
	return fmt.Sprintf("I can't determine your current dasha period (%s). "+
		"Please check the birth details you shared with me.", note)
}

// NakshatraName returns the display name for a nakshatra index.
func NakshatraName(index int) string {
	if index < 0 || index > 26 {
		return "?"
	}
	return astro.Nakshatras[index].Name
}

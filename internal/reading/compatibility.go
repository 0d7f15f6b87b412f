package reading

import (
	"fmt"
	"strings"

	"astro-whatsapp-bot/internal/astro"
)

// CompatibilityScore computes a nakshatra match score out of 36, from
// three classical factors reduced to deterministic arithmetic:
//
//   - tara (12 pts): count from the first nakshatra to the second, mod 9;
//     benefic counts (1, 3, 5, 7) score full, others score half.
//   - group (12 pts): same dasha-lord group scores full, adjacent groups
//     score proportionally less.
//   - pada-independent rasi distance (12 pts): distance between the
//     nakshatras' signs, friendly distances (1/5/9 pattern) score high.
//
// Symmetric in its arguments by construction of each factor pair.
func CompatibilityScore(nakA, nakB int) int {
	nakA = ((nakA % 27) + 27) % 27
	nakB = ((nakB % 27) + 27) % 27

	score := 0

	// Tara: evaluated both directions and averaged, which makes it symmetric.
	score += (taraPoints(nakA, nakB) + taraPoints(nakB, nakA)) / 2

	// Group affinity from the 9-lord partition.
	diff := nakA%9 - nakB%9
	if diff < 0 {
		diff = -diff
	}
	if diff > 4 {
		diff = 9 - diff
	}
	score += 12 - 2*diff

	// Sign distance: each nakshatra spans signs; use its midpoint sign.
	signA := nakA * 4 / 9 // 27 nakshatras over 12 signs: 2.25 nakshatras per sign
	signB := nakB * 4 / 9
	d := signA - signB
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	switch d {
	case 0, 4:
		score += 12
	case 2, 6:
		score += 8
	default:
		score += 5
	}

	if score > 36 {
		score = 36
	}
	if score < 0 {
		score = 0
	}
	return score
}

func taraPoints(from, to int) int {
	count := ((to-from)%27+27)%27%9 + 1
	switch count {
	case 1, 3, 5, 7:
		return 12
	case 2, 4, 6:
		return 8
	default:
		return 4
	}
}

// RenderCompatibility renders a match reading for two birth nakshatras.
func RenderCompatibility(nakA, nakB int) string {
	nakA = ((nakA % 27) + 27) % 27
	nakB = ((nakB % 27) + 27) % 27
	score := CompatibilityScore(nakA, nakB)

	var verdict string
	switch {
	case score >= 28:
		verdict = "an excellent match; the classical texts would bless this one"
	case score >= 21:
		verdict = "a good match with workable differences"
	case score >= 14:
		verdict = "a mixed match that rewards patience"
	default:
		verdict = "a difficult match; both charts will need conscious effort"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Compatibility* — %s and %s\n\n",
		astro.Nakshatras[nakA].Name, astro.Nakshatras[nakB].Name))
	sb.WriteString(fmt.Sprintf("Score: *%d / 36* — %s.\n\n", score, verdict))
	sb.WriteString(fmt.Sprintf("%s brings %s; %s brings %s.",
		astro.Nakshatras[nakA].Name, nakshatraThemes[nakA],
		astro.Nakshatras[nakB].Name, nakshatraThemes[nakB]))
	return sb.String()
}

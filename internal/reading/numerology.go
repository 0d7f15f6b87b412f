package reading

import (
	"fmt"
	"strings"

	"astro-whatsapp-bot/internal/domain"
)

// LifePath computes the numerology life path number from a birth date:
// digits of day, month and full year summed and reduced, preserving the
// master numbers 11 and 22.
func LifePath(i domain.Instant) int {
	sum := digitSum(i.Day) + digitSum(i.Month) + digitSum(i.Year)
	for sum > 9 && sum != 11 && sum != 22 {
		sum = digitSum(sum)
	}
	return sum
}

func digitSum(n int) int {
	if n < 0 {
		n = -n
	}
	s := 0
	for n > 0 {
		s += n % 10
		n /= 10
	}
	return s
}

// RenderNumerology renders the life path reading for a birth date.
func RenderNumerology(i domain.Instant) string {
	n := LifePath(i)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Numerology* — born %02d.%02d.%d\n\n", i.Day, i.Month, i.Year))
	sb.WriteString(fmt.Sprintf("Your life path number is *%d*: %s.", n, numerologyMeanings[n]))
	return sb.String()
}

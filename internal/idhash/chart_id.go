package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"astro-whatsapp-bot/internal/domain"
)

// ComputeChartID computes a deterministic chart_id using SHA256.
// Formula: SHA256(year-month-day|hour:minute|offset|lat|lon|sorted bodies)
// Returns hex-encoded hash (64 characters). The same birth data and body
// set always map to the same ID, which is what makes charts cacheable by
// value upstream.
func ComputeChartID(instant domain.Instant, location domain.GeoCoordinate, bodies []domain.Body) string {
	names := make([]string, 0, len(bodies))
	for _, b := range bodies {
		names = append(names, string(b))
	}
	sort.Strings(names)

	data := fmt.Sprintf("%d-%02d-%02d|%02d:%02d|%+.2f|%.4f|%.4f|%s",
		instant.Year,
		instant.Month,
		instant.Day,
		instant.Hour,
		instant.Minute,
		instant.Offset,
		location.Latitude,
		location.Longitude,
		strings.Join(names, ","),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

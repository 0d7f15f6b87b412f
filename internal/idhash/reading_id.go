// Package idhash computes deterministic record identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"

	"astro-whatsapp-bot/internal/domain"
)

// ComputeReadingID computes a deterministic reading_id using SHA256.
// Formula: SHA256(phone|kind|chart_id|created_at)
// Returns hex-encoded hash (64 characters).
func ComputeReadingID(phone string, kind domain.ReadingKind, chartID *string, createdAtMs int64) string {
	chart := ""
	if chartID != nil {
		chart = *chartID
	}

	data := fmt.Sprintf("%s|%s|%s|%d",
		phone,
		string(kind),
		chart,
		createdAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ShortCode derives the user-facing reference from a reading ID: the first
// 8 hash bytes, base58-encoded so the code survives being typed back from
// a phone keyboard (no 0/O or I/l ambiguity).
func ShortCode(readingID string) string {
	raw, err := hex.DecodeString(readingID)
	if err != nil || len(raw) < 8 {
		// Not a hex hash; encode the raw bytes instead of failing.
		raw = []byte(readingID)
	}
	if len(raw) > 8 {
		raw = raw[:8]
	}
	return base58.Encode(raw)
}

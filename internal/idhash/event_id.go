package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeEventID computes a deterministic event_id using SHA256.
// Formula: SHA256(phone|direction|intent|timestamp_ms)
// Returns hex-encoded hash (64 characters).
func ComputeEventID(phone, direction, intent string, timestampMs int64) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		phone,
		direction,
		intent,
		timestampMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

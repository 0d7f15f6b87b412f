// Package session holds per-phone conversation state for multi-step flows,
// primarily birth-detail collection. State is small, JSON-serializable and
// expires after inactivity.
package session

import (
	"context"
	"errors"
	"time"

	"astro-whatsapp-bot/internal/domain"
)

// ErrNotFound is returned when no conversation exists for a phone number.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle conversation survives before the bot
// forgets it and the user starts over.
const DefaultTTL = 30 * time.Minute

// Step identifies where a conversation stands in a collection flow.
type Step string

const (
	// StepIdle means no flow is active; messages are routed by intent.
	StepIdle Step = "idle"

	// Birth-detail collection, in order.
	StepAwaitDate  Step = "await_date"
	StepAwaitTime  Step = "await_time"
	StepAwaitPlace Step = "await_place"

	// Compatibility flow: partner's birth date after the user's own
	// details are on file.
	StepAwaitPartnerDate Step = "await_partner_date"
)

// Conversation is the state carried between messages from one phone.
type Conversation struct {
	Phone string `json:"phone"`
	Step  Step   `json:"step"`

	// PendingIntent is the request that started the flow, resumed once
	// collection completes (e.g. "chart", "dasha").
	PendingIntent string `json:"pending_intent,omitempty"`

	// Draft accumulates birth details across steps.
	Draft domain.BirthDetails `json:"draft"`

	// OffsetProvided marks that the user typed a UTC offset with the birth
	// time; otherwise the offset comes from the geocoded place.
	OffsetProvided bool `json:"offset_provided,omitempty"`

	UpdatedAtMs int64 `json:"updated_at_ms"`
}

// Store persists conversations keyed by phone number.
type Store interface {
	// Get retrieves the conversation for a phone. Returns ErrNotFound
	// when none exists or it has expired.
	Get(ctx context.Context, phone string) (*Conversation, error)

	// Put stores the conversation and refreshes its TTL.
	Put(ctx context.Context, conv *Conversation) error

	// Delete removes the conversation. Deleting a missing conversation
	// is not an error.
	Delete(ctx context.Context, phone string) error
}

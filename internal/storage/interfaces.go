// Package storage defines the persistence interfaces and their shared
// error values. PostgreSQL backs the user-facing tables, ClickHouse backs
// the analytics events; the memory implementations serve tests and
// offline mode.
package storage

import (
	"context"

	"astro-whatsapp-bot/internal/domain"
)

// UserProfileStore provides access to user_profiles storage.
type UserProfileStore interface {
	// Upsert inserts or updates the profile keyed by phone.
	Upsert(ctx context.Context, p *domain.UserProfile) error

	// GetByPhone retrieves a profile. Returns ErrNotFound if not exists.
	GetByPhone(ctx context.Context, phone string) (*domain.UserProfile, error)
}

// ReadingStore provides access to readings storage. Readings are
// append-only: a reading is never edited after delivery.
type ReadingStore interface {
	// Insert adds a new reading. Returns ErrDuplicateKey if reading_id exists.
	Insert(ctx context.Context, r *domain.Reading) error

	// GetByID retrieves a reading by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, readingID string) (*domain.Reading, error)

	// GetByShortCode retrieves a reading by its user-facing short code.
	// Returns ErrNotFound if not exists.
	GetByShortCode(ctx context.Context, shortCode string) (*domain.Reading, error)

	// GetByPhone retrieves the most recent readings for a phone, newest
	// first, at most limit entries.
	GetByPhone(ctx context.Context, phone string, limit int) ([]*domain.Reading, error)
}

// SubscriptionStore provides access to subscriptions storage.
type SubscriptionStore interface {
	// Upsert inserts or updates the subscription keyed by phone.
	Upsert(ctx context.Context, s *domain.Subscription) error

	// GetByPhone retrieves a subscription. Returns ErrNotFound if not exists.
	GetByPhone(ctx context.Context, phone string) (*domain.Subscription, error)

	// Deactivate marks the subscription inactive. Returns ErrNotFound
	// if not exists.
	Deactivate(ctx context.Context, phone string) error

	// GetActiveByHour retrieves all active subscriptions due at the given
	// UTC hour, ordered by phone.
	GetActiveByHour(ctx context.Context, hourUTC int) ([]*domain.Subscription, error)
}

// MessageEventStore provides access to message_events storage. Append-only
// analytics; losing an event is acceptable, blocking a reply is not.
type MessageEventStore interface {
	// Insert adds a new event.
	Insert(ctx context.Context, e *domain.MessageEvent) error

	// InsertBulk adds multiple events in one batch.
	InsertBulk(ctx context.Context, events []*domain.MessageEvent) error

	// GetByPhone retrieves events for a phone within [start, end] (inclusive),
	// ordered by timestamp ASC.
	GetByPhone(ctx context.Context, phone string, start, end int64) ([]*domain.MessageEvent, error)

	// CountByIntent counts inbound events per intent within [start, end].
	CountByIntent(ctx context.Context, start, end int64) (map[string]int64, error)
}

package memory

import (
	"context"
	"sort"
	"sync"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
)

// MessageEventStore is an in-memory implementation of storage.MessageEventStore.
type MessageEventStore struct {
	mu   sync.RWMutex
	data []*domain.MessageEvent
}

// NewMessageEventStore creates a new in-memory message event store.
func NewMessageEventStore() *MessageEventStore {
	return &MessageEventStore{}
}

// Verify interface compliance at compile time.
var _ storage.MessageEventStore = (*MessageEventStore)(nil)

// Insert adds a new event.
func (s *MessageEventStore) Insert(_ context.Context, e *domain.MessageEvent) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventCopy := *e
	s.data = append(s.data, &eventCopy)
	return nil
}

// InsertBulk adds multiple events in one batch.
func (s *MessageEventStore) InsertBulk(ctx context.Context, events []*domain.MessageEvent) error {
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		eventCopy := *e
		s.data = append(s.data, &eventCopy)
	}
	return nil
}

// GetByPhone retrieves events for a phone within [start, end] (inclusive),
// ordered by timestamp ASC.
func (s *MessageEventStore) GetByPhone(_ context.Context, phone string, start, end int64) ([]*domain.MessageEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MessageEvent
	for _, e := range s.data {
		if e.Phone == phone && e.TimestampMs >= start && e.TimestampMs <= end {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// CountByIntent counts inbound events per intent within [start, end].
func (s *MessageEventStore) CountByIntent(_ context.Context, start, end int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range s.data {
		if e.Direction == domain.DirectionIn && e.TimestampMs >= start && e.TimestampMs <= end {
			counts[e.Intent]++
		}
	}
	return counts, nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
)

// SubscriptionStore is an in-memory implementation of storage.SubscriptionStore.
type SubscriptionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Subscription // keyed by phone
}

// NewSubscriptionStore creates a new in-memory subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		data: make(map[string]*domain.Subscription),
	}
}

// Verify interface compliance at compile time.
var _ storage.SubscriptionStore = (*SubscriptionStore)(nil)

// Upsert inserts or updates the subscription keyed by phone.
func (s *SubscriptionStore) Upsert(_ context.Context, sub *domain.Subscription) error {
	if sub == nil || sub.Phone == "" {
		return storage.ErrInvalidInput
	}
	if sub.SignIndex < 0 || sub.SignIndex > 11 || sub.SendHourUTC < 0 || sub.SendHourUTC > 23 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subCopy := *sub
	s.data[sub.Phone] = &subCopy
	return nil
}

// GetByPhone retrieves a subscription. Returns ErrNotFound if not exists.
func (s *SubscriptionStore) GetByPhone(_ context.Context, phone string) (*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, exists := s.data[phone]
	if !exists {
		return nil, storage.ErrNotFound
	}

	subCopy := *sub
	return &subCopy, nil
}

// Deactivate marks the subscription inactive. Returns ErrNotFound if not exists.
func (s *SubscriptionStore) Deactivate(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.data[phone]
	if !exists {
		return storage.ErrNotFound
	}

	sub.Active = false
	return nil
}

// GetActiveByHour retrieves all active subscriptions due at the given UTC
// hour, ordered by phone.
func (s *SubscriptionStore) GetActiveByHour(_ context.Context, hourUTC int) ([]*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Subscription
	for _, sub := range s.data {
		if sub.Active && sub.SendHourUTC == hourUTC {
			subCopy := *sub
			result = append(result, &subCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Phone < result[j].Phone
	})

	return result, nil
}

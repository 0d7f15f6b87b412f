// Package memory provides in-memory storage implementations for tests and
// offline mode. All stores copy on write and read to prevent external
// mutation.
package memory

import (
	"context"
	"sync"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
)

// UserProfileStore is an in-memory implementation of storage.UserProfileStore.
type UserProfileStore struct {
	mu   sync.RWMutex
	data map[string]*domain.UserProfile // keyed by phone
}

// NewUserProfileStore creates a new in-memory user profile store.
func NewUserProfileStore() *UserProfileStore {
	return &UserProfileStore{
		data: make(map[string]*domain.UserProfile),
	}
}

// Verify interface compliance at compile time.
var _ storage.UserProfileStore = (*UserProfileStore)(nil)

// Upsert inserts or updates the profile keyed by phone.
func (s *UserProfileStore) Upsert(_ context.Context, p *domain.UserProfile) error {
	if p == nil || p.Phone == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[p.Phone] = cloneProfile(p)
	return nil
}

// GetByPhone retrieves a profile. Returns ErrNotFound if not exists.
func (s *UserProfileStore) GetByPhone(_ context.Context, phone string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[phone]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return cloneProfile(p), nil
}

// cloneProfile deep-copies a profile, including the nested birth details.
func cloneProfile(p *domain.UserProfile) *domain.UserProfile {
	profileCopy := *p
	if p.Birth != nil {
		birthCopy := *p.Birth
		profileCopy.Birth = &birthCopy
	}
	return &profileCopy
}

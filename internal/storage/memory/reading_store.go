package memory

import (
	"context"
	"sort"
	"sync"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
)

// ReadingStore is an in-memory implementation of storage.ReadingStore.
type ReadingStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Reading // keyed by reading_id
}

// NewReadingStore creates a new in-memory reading store.
func NewReadingStore() *ReadingStore {
	return &ReadingStore{
		data: make(map[string]*domain.Reading),
	}
}

// Verify interface compliance at compile time.
var _ storage.ReadingStore = (*ReadingStore)(nil)

// Insert adds a new reading. Returns ErrDuplicateKey if reading_id exists.
func (s *ReadingStore) Insert(_ context.Context, r *domain.Reading) error {
	if r == nil || r.ReadingID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ReadingID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.ReadingID] = cloneReading(r)
	return nil
}

// GetByID retrieves a reading by its ID. Returns ErrNotFound if not exists.
func (s *ReadingStore) GetByID(_ context.Context, readingID string) (*domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[readingID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return cloneReading(r), nil
}

// GetByShortCode retrieves a reading by its short code. Returns ErrNotFound
// if not exists.
func (s *ReadingStore) GetByShortCode(_ context.Context, shortCode string) (*domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.data {
		if r.ShortCode == shortCode {
			return cloneReading(r), nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByPhone retrieves the most recent readings for a phone, newest first.
func (s *ReadingStore) GetByPhone(_ context.Context, phone string, limit int) ([]*domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Reading
	for _, r := range s.data {
		if r.Phone == phone {
			result = append(result, cloneReading(r))
		}
	}

	// Sort by created_at DESC; reading_id breaks ties deterministically
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ReadingID < result[j].ReadingID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// cloneReading copies a reading, including the nullable chart reference.
func cloneReading(r *domain.Reading) *domain.Reading {
	readingCopy := *r
	if r.ChartID != nil {
		chartID := *r.ChartID
		readingCopy.ChartID = &chartID
	}
	return &readingCopy
}

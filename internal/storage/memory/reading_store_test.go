package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
)

func testReading(id, phone string, createdAt int64) *domain.Reading {
	return &domain.Reading{
		ReadingID: id,
		ShortCode: "SC" + id,
		Phone:     phone,
		Kind:      domain.ReadingHoroscope,
		Text:      "text " + id,
		CreatedAt: createdAt,
	}
}

func TestReadingStore_InsertAndGet(t *testing.T) {
	s := NewReadingStore()
	ctx := context.Background()

	chartID := "chart-1"
	r := testReading("r1", "+1", 1000)
	r.Kind = domain.ReadingBirthChart
	r.ChartID = &chartID
	require.NoError(t, s.Insert(ctx, r))

	got, err := s.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, r, got)

	bySc, err := s.GetByShortCode(ctx, "SCr1")
	require.NoError(t, err)
	assert.Equal(t, "r1", bySc.ReadingID)
}

func TestReadingStore_DuplicateInsert(t *testing.T) {
	s := NewReadingStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testReading("r1", "+1", 1000)))
	err := s.Insert(ctx, testReading("r1", "+1", 2000))
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestReadingStore_GetMissing(t *testing.T) {
	s := NewReadingStore()
	ctx := context.Background()

	_, err := s.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = s.GetByShortCode(ctx, "nope")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestReadingStore_GetByPhone(t *testing.T) {
	s := NewReadingStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r := testReading(fmt.Sprintf("r%d", i), "+1", int64(1000+i))
		require.NoError(t, s.Insert(ctx, r))
	}
	require.NoError(t, s.Insert(ctx, testReading("other", "+2", 9999)))

	result, err := s.GetByPhone(ctx, "+1", 3)
	require.NoError(t, err)
	require.Len(t, result, 3)

	// Newest first.
	assert.Equal(t, "r4", result[0].ReadingID)
	assert.Equal(t, "r3", result[1].ReadingID)
	assert.Equal(t, "r2", result[2].ReadingID)

	all, err := s.GetByPhone(ctx, "+1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

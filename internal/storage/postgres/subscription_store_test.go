package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
	"astro-whatsapp-bot/internal/storage/postgres"
)

func TestSubscriptionStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	s := postgres.NewSubscriptionStore(pool)
	ctx := context.Background()

	t.Run("upsert and get", func(t *testing.T) {
		sub := &domain.Subscription{Phone: "+1", SignIndex: 4, SendHourUTC: 8, Active: true, CreatedAt: 1000}
		require.NoError(t, s.Upsert(ctx, sub))

		got, err := s.GetByPhone(ctx, "+1")
		require.NoError(t, err)
		assert.Equal(t, sub, got)
	})

	t.Run("upsert updates sign and hour", func(t *testing.T) {
		sub := &domain.Subscription{Phone: "+1", SignIndex: 7, SendHourUTC: 6, Active: true, CreatedAt: 2000}
		require.NoError(t, s.Upsert(ctx, sub))

		got, err := s.GetByPhone(ctx, "+1")
		require.NoError(t, err)
		assert.Equal(t, 7, got.SignIndex)
		assert.Equal(t, 6, got.SendHourUTC)
		// created_at keeps the original insert time.
		assert.Equal(t, int64(1000), got.CreatedAt)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		assert.True(t, errors.Is(s.Upsert(ctx, nil), storage.ErrInvalidInput))
		assert.True(t, errors.Is(s.Upsert(ctx, &domain.Subscription{Phone: "+1", SignIndex: 12, SendHourUTC: 8}), storage.ErrInvalidInput))
		assert.True(t, errors.Is(s.Upsert(ctx, &domain.Subscription{Phone: "+1", SignIndex: 0, SendHourUTC: 24}), storage.ErrInvalidInput))
	})

	t.Run("deactivate", func(t *testing.T) {
		require.NoError(t, s.Deactivate(ctx, "+1"))

		got, err := s.GetByPhone(ctx, "+1")
		require.NoError(t, err)
		assert.False(t, got.Active)

		assert.True(t, errors.Is(s.Deactivate(ctx, "+404"), storage.ErrNotFound))
	})

	t.Run("get active by hour", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, &domain.Subscription{Phone: "+3", SignIndex: 0, SendHourUTC: 8, Active: true, CreatedAt: 1}))
		require.NoError(t, s.Upsert(ctx, &domain.Subscription{Phone: "+2", SignIndex: 1, SendHourUTC: 8, Active: true, CreatedAt: 1}))
		require.NoError(t, s.Upsert(ctx, &domain.Subscription{Phone: "+4", SignIndex: 2, SendHourUTC: 9, Active: true, CreatedAt: 1}))

		due, err := s.GetActiveByHour(ctx, 8)
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, "+2", due[0].Phone)
		assert.Equal(t, "+3", due[1].Phone)

		none, err := s.GetActiveByHour(ctx, 23)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

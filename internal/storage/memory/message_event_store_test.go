package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/storage"
)

func testEvent(id, phone, direction, intent string, ts int64) *domain.MessageEvent {
	return &domain.MessageEvent{
		EventID:     id,
		Phone:       phone,
		Direction:   direction,
		Intent:      intent,
		TimestampMs: ts,
	}
}

func TestMessageEventStore_InsertAndGetByPhone(t *testing.T) {
	s := NewMessageEventStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testEvent("e2", "+1", domain.DirectionIn, "chart", 2000)))
	require.NoError(t, s.Insert(ctx, testEvent("e1", "+1", domain.DirectionOut, "chart", 1000)))
	require.NoError(t, s.Insert(ctx, testEvent("e3", "+2", domain.DirectionIn, "help", 1500)))

	result, err := s.GetByPhone(ctx, "+1", 0, 3000)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Timestamp ASC.
	assert.Equal(t, "e1", result[0].EventID)
	assert.Equal(t, "e2", result[1].EventID)

	// Range bounds are inclusive.
	result, err = s.GetByPhone(ctx, "+1", 2000, 2000)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "e2", result[0].EventID)
}

func TestMessageEventStore_InsertBulk(t *testing.T) {
	s := NewMessageEventStore()
	ctx := context.Background()

	events := []*domain.MessageEvent{
		testEvent("e1", "+1", domain.DirectionIn, "chart", 1000),
		testEvent("e2", "+1", domain.DirectionIn, "dasha", 2000),
	}
	require.NoError(t, s.InsertBulk(ctx, events))

	result, err := s.GetByPhone(ctx, "+1", 0, 3000)
	require.NoError(t, err)
	assert.Len(t, result, 2)

	// A batch containing an invalid event is rejected whole.
	bad := []*domain.MessageEvent{
		testEvent("e3", "+1", domain.DirectionIn, "chart", 3000),
		{Phone: "+1"},
	}
	assert.True(t, errors.Is(s.InsertBulk(ctx, bad), storage.ErrInvalidInput))

	result, err = s.GetByPhone(ctx, "+1", 0, 4000)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestMessageEventStore_CountByIntent(t *testing.T) {
	s := NewMessageEventStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testEvent("e1", "+1", domain.DirectionIn, "chart", 1000)))
	require.NoError(t, s.Insert(ctx, testEvent("e2", "+2", domain.DirectionIn, "chart", 2000)))
	require.NoError(t, s.Insert(ctx, testEvent("e3", "+1", domain.DirectionIn, "dasha", 3000)))
	// Outbound events are not intents.
	require.NoError(t, s.Insert(ctx, testEvent("e4", "+1", domain.DirectionOut, "chart", 1500)))

	counts, err := s.CountByIntent(ctx, 0, 5000)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"chart": 2, "dasha": 1}, counts)

	counts, err = s.CountByIntent(ctx, 2500, 5000)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"dasha": 1}, counts)
}

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

func testProfile(phone string) *domain.UserProfile {
	return &domain.UserProfile{
		Phone:    phone,
		Name:     "Asha",
		Language: "en",
		Birth: &domain.BirthDetails{
			Instant:  domain.Instant{Year: 1990, Month: 6, Day: 15, Hour: 10, Minute: 30, Offset: 5.5},
			Place:    "New Delhi, India",
			Location: domain.GeoCoordinate{Latitude: 28.6139, Longitude: 77.2090},
		},
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000000000,
	}
}

func TestUserProfileStore_UpsertAndGet(t *testing.T) {
	s := NewUserProfileStore()
	ctx := context.Background()

	p := testProfile("+919876543210")
	require.NoError(t, s.Upsert(ctx, p))

	got, err := s.GetByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Upsert replaces in place.
	p.Name = "Asha K"
	p.UpdatedAt = 1700000001000
	require.NoError(t, s.Upsert(ctx, p))

	got, err = s.GetByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.Name)
}

func TestUserProfileStore_GetMissing(t *testing.T) {
	s := NewUserProfileStore()
	_, err := s.GetByPhone(context.Background(), "+10000000000")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestUserProfileStore_InvalidInput(t *testing.T) {
	s := NewUserProfileStore()
	ctx := context.Background()
	assert.True(t, errors.Is(s.Upsert(ctx, nil), storage.ErrInvalidInput))
	assert.True(t, errors.Is(s.Upsert(ctx, &domain.UserProfile{}), storage.ErrInvalidInput))
}

func TestUserProfileStore_CopySemantics(t *testing.T) {
	s := NewUserProfileStore()
	ctx := context.Background()

	p := testProfile("+1")
	require.NoError(t, s.Upsert(ctx, p))

	// Mutating the inserted value must not affect the stored copy.
	p.Birth.Place = "elsewhere"

	got, err := s.GetByPhone(ctx, "+1")
	require.NoError(t, err)
	assert.Equal(t, "New Delhi, India", got.Birth.Place)

	// Mutating a returned value must not affect later reads.
	got.Birth.Instant.Year = 2000
	again, err := s.GetByPhone(ctx, "+1")
	require.NoError(t, err)
	assert.Equal(t, 1990, again.Birth.Instant.Year)
}

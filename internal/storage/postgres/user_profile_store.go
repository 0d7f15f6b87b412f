package postgres

import (
	"context"
	"fmt"
	"time"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
	"astro-whatsapp-bot/internal/storage"
)

// UserProfileStore implements storage.UserProfileStore using PostgreSQL.
type UserProfileStore struct {
	pool *Pool
}

// NewUserProfileStore creates a new UserProfileStore.
func NewUserProfileStore(pool *Pool) *UserProfileStore {
	return &UserProfileStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserProfileStore = (*UserProfileStore)(nil)

// Upsert inserts or updates the profile keyed by phone.
func (s *UserProfileStore) Upsert(ctx context.Context, p *domain.UserProfile) error {
	if p == nil || p.Phone == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO user_profiles (
			phone, name, language,
			birth_year, birth_month, birth_day, birth_hour, birth_minute,
			birth_offset, birth_place, birth_lat, birth_lon,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			language = EXCLUDED.language,
			birth_year = EXCLUDED.birth_year,
			birth_month = EXCLUDED.birth_month,
			birth_day = EXCLUDED.birth_day,
			birth_hour = EXCLUDED.birth_hour,
			birth_minute = EXCLUDED.birth_minute,
			birth_offset = EXCLUDED.birth_offset,
			birth_place = EXCLUDED.birth_place,
			birth_lat = EXCLUDED.birth_lat,
			birth_lon = EXCLUDED.birth_lon,
			updated_at = EXCLUDED.updated_at
	`

	// Birth details flatten into nullable columns; NULL year marks "no
	// birth details on file".
	var (
		year, month, day, hour, minute *int
		offset, lat, lon               *float64
		place                          *string
	)
	if p.Birth != nil {
		b := p.Birth
		year, month, day = &b.Instant.Year, &b.Instant.Month, &b.Instant.Day
		hour, minute = &b.Instant.Hour, &b.Instant.Minute
		offset = &b.Instant.Offset
		place = &b.Place
		lat, lon = &b.Location.Latitude, &b.Location.Longitude
	}

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		p.Phone, p.Name, p.Language,
		year, month, day, hour, minute,
		offset, place, lat, lon,
		p.CreatedAt, p.UpdatedAt,
	)
	observability.RecordDBQuery("postgres", "user_profile_upsert", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}
	return nil
}

// GetByPhone retrieves a profile. Returns ErrNotFound if not exists.
func (s *UserProfileStore) GetByPhone(ctx context.Context, phone string) (*domain.UserProfile, error) {
	query := `
		SELECT phone, name, language,
		       birth_year, birth_month, birth_day, birth_hour, birth_minute,
		       birth_offset, birth_place, birth_lat, birth_lon,
		       created_at, updated_at
		FROM user_profiles
		WHERE phone = $1
	`

	var (
		p                              domain.UserProfile
		year, month, day, hour, minute *int
		offset, lat, lon               *float64
		place                          *string
	)

	start := time.Now()
	err := s.pool.QueryRow(ctx, query, phone).Scan(
		&p.Phone, &p.Name, &p.Language,
		&year, &month, &day, &hour, &minute,
		&offset, &place, &lat, &lon,
		&p.CreatedAt, &p.UpdatedAt,
	)
	observability.RecordDBQuery("postgres", "user_profile_get", time.Since(start).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	if year != nil {
		birth := domain.BirthDetails{
			Instant: domain.Instant{
				Year:   *year,
				Month:  *month,
				Day:    *day,
				Hour:   *hour,
				Minute: *minute,
				Offset: *offset,
			},
			Location: domain.GeoCoordinate{Latitude: *lat, Longitude: *lon},
		}
		if place != nil {
			birth.Place = *place
		}
		p.Birth = &birth
	}
	return &p, nil
}

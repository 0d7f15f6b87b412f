package postgres

import (
	"context"
	"fmt"
	"time"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
	"astro-whatsapp-bot/internal/storage"
)

// SubscriptionStore implements storage.SubscriptionStore using PostgreSQL.
type SubscriptionStore struct {
	pool *Pool
}

// NewSubscriptionStore creates a new SubscriptionStore.
func NewSubscriptionStore(pool *Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SubscriptionStore = (*SubscriptionStore)(nil)

// Upsert inserts or updates the subscription keyed by phone.
func (s *SubscriptionStore) Upsert(ctx context.Context, sub *domain.Subscription) error {
	if sub == nil || sub.Phone == "" {
		return storage.ErrInvalidInput
	}
	if sub.SignIndex < 0 || sub.SignIndex > 11 || sub.SendHourUTC < 0 || sub.SendHourUTC > 23 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO subscriptions (phone, sign_index, send_hour_utc, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone) DO UPDATE SET
			sign_index = EXCLUDED.sign_index,
			send_hour_utc = EXCLUDED.send_hour_utc,
			active = EXCLUDED.active
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		sub.Phone, sub.SignIndex, sub.SendHourUTC, sub.Active, sub.CreatedAt,
	)
	observability.RecordDBQuery("postgres", "subscription_upsert", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// GetByPhone retrieves a subscription. Returns ErrNotFound if not exists.
func (s *SubscriptionStore) GetByPhone(ctx context.Context, phone string) (*domain.Subscription, error) {
	query := `
		SELECT phone, sign_index, send_hour_utc, active, created_at
		FROM subscriptions
		WHERE phone = $1
	`

	var sub domain.Subscription
	start := time.Now()
	err := s.pool.QueryRow(ctx, query, phone).Scan(
		&sub.Phone, &sub.SignIndex, &sub.SendHourUTC, &sub.Active, &sub.CreatedAt,
	)
	observability.RecordDBQuery("postgres", "subscription_get", time.Since(start).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

// Deactivate marks the subscription inactive. Returns ErrNotFound if not exists.
func (s *SubscriptionStore) Deactivate(ctx context.Context, phone string) error {
	query := `UPDATE subscriptions SET active = FALSE WHERE phone = $1`

	start := time.Now()
	tag, err := s.pool.Exec(ctx, query, phone)
	observability.RecordDBQuery("postgres", "subscription_deactivate", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetActiveByHour retrieves all active subscriptions due at the given UTC
// hour, ordered by phone.
func (s *SubscriptionStore) GetActiveByHour(ctx context.Context, hourUTC int) ([]*domain.Subscription, error) {
	query := `
		SELECT phone, sign_index, send_hour_utc, active, created_at
		FROM subscriptions
		WHERE active AND send_hour_utc = $1
		ORDER BY phone ASC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, hourUTC)
	observability.RecordDBQuery("postgres", "subscription_due", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get due subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.Phone, &sub.SignIndex, &sub.SendHourUTC, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription row: %w", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription rows: %w", err)
	}
	return subs, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
	"astro-whatsapp-bot/internal/storage"
)

// ReadingStore implements storage.ReadingStore using PostgreSQL.
type ReadingStore struct {
	pool *Pool
}

// NewReadingStore creates a new ReadingStore.
func NewReadingStore(pool *Pool) *ReadingStore {
	return &ReadingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReadingStore = (*ReadingStore)(nil)

// Insert adds a new reading. Returns ErrDuplicateKey if reading_id exists.
func (s *ReadingStore) Insert(ctx context.Context, r *domain.Reading) error {
	if r == nil || r.ReadingID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO readings (
			reading_id, short_code, phone, kind, body, chart_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		r.ReadingID,
		r.ShortCode,
		r.Phone,
		string(r.Kind),
		r.Text,
		r.ChartID,
		r.CreatedAt,
	)
	observability.RecordDBQuery("postgres", "reading_insert", time.Since(start).Seconds(), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// GetByID retrieves a reading by its ID. Returns ErrNotFound if not exists.
func (s *ReadingStore) GetByID(ctx context.Context, readingID string) (*domain.Reading, error) {
	query := `
		SELECT reading_id, short_code, phone, kind, body, chart_id, created_at
		FROM readings
		WHERE reading_id = $1
	`

	start := time.Now()
	row := s.pool.QueryRow(ctx, query, readingID)
	r, err := scanReading(row)
	observability.RecordDBQuery("postgres", "reading_get", time.Since(start).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get reading by id: %w", err)
	}
	return r, nil
}

// GetByShortCode retrieves a reading by its short code. Returns ErrNotFound
// if not exists.
func (s *ReadingStore) GetByShortCode(ctx context.Context, shortCode string) (*domain.Reading, error) {
	query := `
		SELECT reading_id, short_code, phone, kind, body, chart_id, created_at
		FROM readings
		WHERE short_code = $1
	`

	start := time.Now()
	row := s.pool.QueryRow(ctx, query, shortCode)
	r, err := scanReading(row)
	observability.RecordDBQuery("postgres", "reading_get_short", time.Since(start).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get reading by short code: %w", err)
	}
	return r, nil
}

// GetByPhone retrieves the most recent readings for a phone, newest first.
func (s *ReadingStore) GetByPhone(ctx context.Context, phone string, limit int) ([]*domain.Reading, error) {
	query := `
		SELECT reading_id, short_code, phone, kind, body, chart_id, created_at
		FROM readings
		WHERE phone = $1
		ORDER BY created_at DESC, reading_id ASC
	`
	args := []interface{}{phone}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, args...)
	observability.RecordDBQuery("postgres", "reading_list", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get readings by phone: %w", err)
	}
	defer rows.Close()

	var readings []*domain.Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading row: %w", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reading rows: %w", err)
	}
	return readings, nil
}

// scanReading scans a single row into a Reading.
func scanReading(row pgx.Row) (*domain.Reading, error) {
	var r domain.Reading
	var kindStr string

	err := row.Scan(
		&r.ReadingID,
		&r.ShortCode,
		&r.Phone,
		&kindStr,
		&r.Text,
		&r.ChartID,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Kind = domain.ReadingKind(kindStr)
	return &r, nil
}

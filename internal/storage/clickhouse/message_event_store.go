package clickhouse

import (
	"context"
	"fmt"
	"time"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
	"astro-whatsapp-bot/internal/storage"
)

// MessageEventStore implements storage.MessageEventStore using ClickHouse.
// Events are append-only; duplicate event IDs are tolerated and collapse
// at query time, which keeps the hot insert path free of existence checks.
type MessageEventStore struct {
	conn *Conn
}

// NewMessageEventStore creates a new MessageEventStore.
func NewMessageEventStore(conn *Conn) *MessageEventStore {
	return &MessageEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MessageEventStore = (*MessageEventStore)(nil)

// Insert adds a new event.
func (s *MessageEventStore) Insert(ctx context.Context, e *domain.MessageEvent) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.MessageEvent{e})
}

// InsertBulk adds multiple events in one batch.
func (s *MessageEventStore) InsertBulk(ctx context.Context, events []*domain.MessageEvent) error {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
	}

	start := time.Now()
	err := s.insertBatch(ctx, events)
	observability.RecordDBQuery("clickhouse", "event_insert", time.Since(start).Seconds(), err)
	return err
}

func (s *MessageEventStore) insertBatch(ctx context.Context, events []*domain.MessageEvent) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO message_events (
			event_id, phone, direction, intent, latency_ms, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(
			e.EventID, e.Phone, e.Direction, e.Intent, e.LatencyMs, e.TimestampMs,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByPhone retrieves events for a phone within [start, end] (inclusive),
// ordered by timestamp ASC.
func (s *MessageEventStore) GetByPhone(ctx context.Context, phone string, start, end int64) ([]*domain.MessageEvent, error) {
	query := `
		SELECT event_id, phone, direction, intent, latency_ms, timestamp_ms
		FROM message_events
		WHERE phone = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, event_id ASC
	`

	began := time.Now()
	rows, err := s.conn.Query(ctx, query, phone, start, end)
	observability.RecordDBQuery("clickhouse", "event_query", time.Since(began).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query events by phone: %w", err)
	}
	defer rows.Close()

	var events []*domain.MessageEvent
	for rows.Next() {
		var e domain.MessageEvent
		err := rows.Scan(
			&e.EventID, &e.Phone, &e.Direction, &e.Intent, &e.LatencyMs, &e.TimestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}

// CountByIntent counts inbound events per intent within [start, end].
func (s *MessageEventStore) CountByIntent(ctx context.Context, start, end int64) (map[string]int64, error) {
	query := `
		SELECT intent, count(*) AS n
		FROM message_events
		WHERE direction = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		GROUP BY intent
	`

	began := time.Now()
	rows, err := s.conn.Query(ctx, query, domain.DirectionIn, start, end)
	observability.RecordDBQuery("clickhouse", "event_count", time.Since(began).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("count events by intent: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var intent string
		var n uint64
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[intent] = int64(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate count rows: %w", err)
	}
	return counts, nil
}

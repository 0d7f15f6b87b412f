// Package main sends the daily horoscope batch: every subscription due at
// the given UTC hour gets its sign's horoscope for today. Designed to run
// from cron once per hour.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/idhash"
	"astro-whatsapp-bot/internal/reading"
	"astro-whatsapp-bot/internal/storage"
	"astro-whatsapp-bot/internal/storage/migrations"
	pgstore "astro-whatsapp-bot/internal/storage/postgres"
	"astro-whatsapp-bot/internal/whatsapp"
)

// Config is loaded from ASTRO_* environment variables.
type Config struct {
	GatewayHTTPEndpoint string `envconfig:"GATEWAY_HTTP_ENDPOINT" required:"true"`
	GatewayAuthToken    string `envconfig:"GATEWAY_AUTH_TOKEN"`
	PostgresDSN         string `envconfig:"POSTGRES_DSN" required:"true"`
}

func main() {
	hour := flag.Int("hour", -1, "UTC hour to send for (default: current hour)")
	dryRun := flag.Bool("dry-run", false, "Render and log without sending or persisting")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall batch timeout")
	flag.Parse()

	zlog, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	var cfg Config
	if err := envconfig.Process("astro", &cfg); err != nil {
		logger.Fatalw("Failed to load configuration", "error", err)
	}

	now := time.Now().UTC()
	sendHour := *hour
	if sendHour < 0 {
		sendHour = now.Hour()
	}
	if sendHour > 23 {
		logger.Fatalw("Invalid hour", "hour", sendHour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalw("Failed to run migrations", "error", err)
	}

	subs := pgstore.NewSubscriptionStore(pool)
	readings := pgstore.NewReadingStore(pool)
	sender := whatsapp.NewHTTPSender(cfg.GatewayHTTPEndpoint, cfg.GatewayAuthToken)

	due, err := subs.GetActiveByHour(ctx, sendHour)
	if err != nil {
		logger.Fatalw("Failed to load subscriptions", "hour", sendHour, "error", err)
	}
	logger.Infow("Loaded due subscriptions", "hour", sendHour, "count", len(due))

	sent, failed := 0, 0
	for _, sub := range due {
		if err := deliver(ctx, sub, now, sender, readings, *dryRun, logger); err != nil {
			failed++
			logger.Errorw("Failed to deliver horoscope", "phone", sub.Phone, "error", err)
			continue
		}
		sent++
	}

	logger.Infow("Batch complete", "hour", sendHour, "sent", sent, "failed", failed)
	if sent == 0 && failed > 0 {
		os.Exit(1)
	}
}

// deliver renders, sends and persists one subscriber's horoscope.
func deliver(ctx context.Context, sub *domain.Subscription, now time.Time, sender whatsapp.Sender, readings storage.ReadingStore, dryRun bool, logger *zap.SugaredLogger) error {
	text := reading.DailyHoroscope(sub.SignIndex, now)

	if dryRun {
		logger.Infow("Would send horoscope", "phone", sub.Phone, "sign", reading.SignName(sub.SignIndex))
		return nil
	}

	if _, err := sender.Send(ctx, domain.OutboundMessage{To: sub.Phone, Text: text}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	createdAt := now.UnixMilli()
	readingID := idhash.ComputeReadingID(sub.Phone, domain.ReadingHoroscope, nil, createdAt)
	r := &domain.Reading{
		ReadingID: readingID,
		ShortCode: idhash.ShortCode(readingID),
		Phone:     sub.Phone,
		Kind:      domain.ReadingHoroscope,
		Text:      text,
		CreatedAt: createdAt,
	}
	if err := readings.Insert(ctx, r); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		// The message went out; a persistence failure should not fail the run.
		logger.Warnw("Failed to persist horoscope reading", "phone", sub.Phone, "error", err)
	}
	return nil
}

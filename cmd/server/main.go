// Package main runs the WhatsApp astrology bot service:
// - Gateway intake (continuous): WebSocket stream and/or signed webhook
// - Message processing: intent routing, chart assembly, readings
// - Observability: health, status and Prometheus metrics endpoints
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/chart"
	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/ephemeris"
	ephstub "astro-whatsapp-bot/internal/ephemeris/stub"
	"astro-whatsapp-bot/internal/geocode"
	"astro-whatsapp-bot/internal/observability"
	"astro-whatsapp-bot/internal/session"
	"astro-whatsapp-bot/internal/storage"
	chstore "astro-whatsapp-bot/internal/storage/clickhouse"
	"astro-whatsapp-bot/internal/storage/memory"
	"astro-whatsapp-bot/internal/storage/migrations"
	pgstore "astro-whatsapp-bot/internal/storage/postgres"
	"astro-whatsapp-bot/internal/whatsapp"
)

// Config is loaded from ASTRO_* environment variables.
type Config struct {
	GatewayWSEndpoint   string `envconfig:"GATEWAY_WS_ENDPOINT"`
	GatewayHTTPEndpoint string `envconfig:"GATEWAY_HTTP_ENDPOINT" required:"true"`
	GatewayAuthToken    string `envconfig:"GATEWAY_AUTH_TOKEN"`

	WebhookAddr        string `envconfig:"WEBHOOK_ADDR" default:":8080"`
	WebhookAppSecret   string `envconfig:"WEBHOOK_APP_SECRET"`
	WebhookVerifyToken string `envconfig:"WEBHOOK_VERIFY_TOKEN"`

	EphemerisEndpoint string `envconfig:"EPHEMERIS_ENDPOINT"`
	GeocodeEndpoint   string `envconfig:"GEOCODE_ENDPOINT"`

	PostgresDSN   string        `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN string        `envconfig:"CLICKHOUSE_DSN"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	Workers int `envconfig:"WORKERS" default:"4"`
}

// Server holds the running components and processing stats.
type Server struct {
	processor *whatsapp.Processor
	logger    *zap.SugaredLogger

	mu          sync.Mutex
	startedAt   time.Time
	lastInbound time.Time
	processed   int64
	sendErrors  int64
}

// stores holds the storage implementations behind the processor.
type stores struct {
	users         storage.UserProfileStore
	readings      storage.ReadingStore
	subscriptions storage.SubscriptionStore
	events        storage.MessageEventStore
}

func main() {
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage and sessions instead of PostgreSQL/ClickHouse/Redis")
	metricsAddr := flag.String("metrics-addr", ":9090", "Health/status/metrics HTTP address")
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

	if cfg.GatewayWSEndpoint == "" && cfg.WebhookAppSecret == "" {
		logger.Fatal("No message intake configured: set ASTRO_GATEWAY_WS_ENDPOINT or ASTRO_WEBHOOK_APP_SECRET")
	}
	if !*useMemory && (cfg.PostgresDSN == "" || cfg.ClickhouseDSN == "" || cfg.RedisAddr == "") {
		logger.Fatal("ASTRO_POSTGRES_DSN, ASTRO_CLICKHOUSE_DSN and ASTRO_REDIS_ADDR are required (use --use-memory for in-memory backends)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, cfg, *useMemory)
	if err != nil {
		logger.Fatalw("Failed to create stores", "error", err)
	}
	defer cleanup()

	sessions, closeSessions, err := createSessions(ctx, cfg, *useMemory)
	if err != nil {
		logger.Fatalw("Failed to create session store", "error", err)
	}
	defer closeSessions()

	eph := createEphemeris(cfg, logger)
	geocoder := createGeocoder(cfg, logger)

	assembler := chart.NewAssembler(chart.Options{
		Source:    eph,
		Ascendant: eph,
		Logger:    logger,
	})

	sender := whatsapp.NewHTTPSender(cfg.GatewayHTTPEndpoint, cfg.GatewayAuthToken)

	processor := whatsapp.NewProcessor(whatsapp.ProcessorOptions{
		Assembler:     assembler,
		Geocoder:      geocoder,
		Sessions:      sessions,
		Users:         st.users,
		Readings:      st.readings,
		Subscriptions: st.subscriptions,
		Events:        st.events,
		Sender:        sender,
		Logger:        logger,
	})

	server := &Server{
		processor: processor,
		logger:    logger,
		startedAt: time.Now(),
	}

	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Infow("Received signal, initiating graceful shutdown", "signal", sig.String())
		cancel()

		select {
		case sig := <-sigCh:
			logger.Warnw("Received second signal, forcing immediate shutdown", "signal", sig.String())
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Warn("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	go server.startHTTPServer(ctx, *metricsAddr, cfg)
	go runUptimeTicker(ctx)

	err = server.Run(ctx, cfg)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalw("Server error", "error", err)
	}

	logger.Info("Shutdown complete")
}

// createStores creates the storage backends.
func createStores(ctx context.Context, cfg Config, useMemory bool) (*stores, func(), error) {
	if useMemory {
		st := &stores{
			users:         memory.NewUserProfileStore(),
			readings:      memory.NewReadingStore(),
			subscriptions: memory.NewSubscriptionStore(),
			events:        memory.NewMessageEventStore(),
		}
		return st, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	st := &stores{
		users:         pgstore.NewUserProfileStore(pool),
		readings:      pgstore.NewReadingStore(pool),
		subscriptions: pgstore.NewSubscriptionStore(pool),
		events:        chstore.NewMessageEventStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return st, cleanup, nil
}

// createSessions creates the conversation session store.
func createSessions(ctx context.Context, cfg Config, useMemory bool) (session.Store, func(), error) {
	if useMemory {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
	rs, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rs, func() { rs.Close() }, nil
}

// createEphemeris picks the ephemeris backend. Without a sidecar endpoint
// the built-in mean-motion tables are used; positions are approximate.
func createEphemeris(cfg Config, logger *zap.SugaredLogger) ephemeris.Provider {
	if cfg.EphemerisEndpoint != "" {
		return ephemeris.NewHTTPClient(cfg.EphemerisEndpoint)
	}
	logger.Warn("ASTRO_EPHEMERIS_ENDPOINT not set, using built-in approximate ephemeris")
	return ephstub.NewProvider()
}

// createGeocoder picks the geocoder backend. Without an endpoint the
// built-in city table is used.
func createGeocoder(cfg Config, logger *zap.SugaredLogger) geocode.Geocoder {
	if cfg.GeocodeEndpoint != "" {
		return geocode.NewHTTPClient(cfg.GeocodeEndpoint)
	}
	logger.Warn("ASTRO_GEOCODE_ENDPOINT not set, using built-in city table")
	return geocode.NewStub()
}

// runUptimeTicker drives the uptime counter until the context is cancelled.
func runUptimeTicker(ctx context.Context) {
	const step = 15 * time.Second

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.RecordUptime(step.Seconds())
		}
	}
}

// Run starts message intake and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	s.logger.Info("Starting server")

	if cfg.GatewayWSEndpoint == "" {
		s.logger.Info("Gateway WebSocket intake disabled, webhook only")
		<-ctx.Done()
		return ctx.Err()
	}

	gateway, err := whatsapp.NewGatewayClient(ctx, cfg.GatewayWSEndpoint, nil, s.logger)
	if err != nil {
		return fmt.Errorf("connect gateway websocket: %w", err)
	}
	defer gateway.Close()

	s.logger.Infow("Gateway intake started", "endpoint", cfg.GatewayWSEndpoint, "workers", cfg.Workers)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range gateway.Messages() {
				s.handleMessage(ctx, msg)
			}
		}()
	}

	<-ctx.Done()
	gateway.Close()
	wg.Wait()
	return ctx.Err()
}

// handleMessage processes one inbound message and updates stats.
func (s *Server) handleMessage(ctx context.Context, msg domain.InboundMessage) {
	s.mu.Lock()
	s.lastInbound = time.Now()
	s.mu.Unlock()

	err := s.processor.Process(ctx, msg)

	s.mu.Lock()
	s.processed++
	if err != nil {
		s.sendErrors++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Errorw("Failed to process message", "from", msg.From, "error", err)
	}
}

// startHTTPServer serves health, status, metrics and the webhook endpoint.
func (s *Server) startHTTPServer(ctx context.Context, addr string, cfg Config) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.handleStatus)

	if cfg.WebhookAppSecret != "" {
		webhook := whatsapp.NewWebhook(cfg.WebhookAppSecret, cfg.WebhookVerifyToken, func(msg domain.InboundMessage) {
			go s.handleMessage(ctx, msg)
		}, s.logger)
		mux.Handle("/webhook", webhook)
		s.logger.Infow("Webhook intake enabled", "path", "/webhook")
	}

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Infow("Starting HTTP server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Errorw("HTTP server error", "error", err)
	}
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	StartedAt   time.Time `json:"started_at"`
	LastInbound time.Time `json:"last_inbound,omitempty"`
	Processed   int64     `json:"messages_processed"`
	SendErrors  int64     `json:"send_errors"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.startedAt).String(),
		StartedAt:   s.startedAt,
		LastInbound: s.lastInbound,
		Processed:   s.processed,
		SendErrors:  s.sendErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
)

// GatewayConfig configures WebSocket client behavior.
type GatewayConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultGatewayConfig returns default WebSocket configuration.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       90 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// GatewayClient streams inbound WhatsApp messages from the gateway's
// WebSocket endpoint. It reconnects with exponential backoff and keeps the
// connection alive with periodic pings. All received messages are delivered
// on a single channel; sends block rather than drop.
type GatewayClient struct {
	endpoint string
	config   GatewayConfig
	logger   *zap.SugaredLogger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	messages chan domain.InboundMessage

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewGatewayClient connects to the gateway stream and starts the read and
// ping loops. A nil config uses defaults; a nil logger is replaced with a
// no-op one.
func NewGatewayClient(ctx context.Context, endpoint string, config *GatewayConfig, logger *zap.SugaredLogger) (*GatewayClient, error) {
	cfg := DefaultGatewayConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c := &GatewayClient{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		messages: make(chan domain.InboundMessage, 1024),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// Messages returns the inbound message stream. Closed on Close.
func (c *GatewayClient) Messages() <-chan domain.InboundMessage {
	return c.messages
}

// connect establishes the WebSocket connection.
func (c *GatewayClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// Close closes the connection and the message channel.
func (c *GatewayClient) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.messages)
	return nil
}

// readLoop reads frames and dispatches inbound messages.
func (c *GatewayClient) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, frame, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = c.config.ReconnectDelay

		c.handleFrame(frame)
	}
}

// reconnect waits out the backoff delay and re-dials.
func (c *GatewayClient) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	observability.RecordGatewayReconnect()

	if err := c.connect(ctx); err != nil {
		c.logger.Warnw("gateway reconnect failed", "error", err)
		// Will retry on next read error
		return
	}
	c.logger.Infow("gateway reconnected")
}

// handleFrame parses one frame and forwards message events.
func (c *GatewayClient) handleFrame(frame []byte) {
	var event gatewayEvent
	if err := json.Unmarshal(frame, &event); err != nil {
		c.logger.Warnw("gateway frame decode failed", "error", err)
		return
	}

	if event.Type != "message" || event.Message == nil {
		// Acks and status events carry nothing the bot acts on.
		return
	}

	// Block until delivered - never drop a user message
	select {
	case c.messages <- event.Message.toDomain():
	case <-c.done:
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *GatewayClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				// A failed ping means a dead connection; the reader
				// notices and reconnects.
				c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

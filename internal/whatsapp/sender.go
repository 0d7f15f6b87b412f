package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
)

// Sender delivers outbound messages to the user.
type Sender interface {
	// Send delivers one message and returns the gateway's message ID.
	Send(ctx context.Context, msg domain.OutboundMessage) (string, error)
}

// Default HTTP sender configuration.
const (
	DefaultSendTimeout    = 15 * time.Second
	DefaultSendMaxRetries = 2
	DefaultSendRetryDelay = 500 * time.Millisecond
	DefaultSendMaxDelay   = 5 * time.Second
)

// HTTPSender implements Sender against the gateway's REST API.
type HTTPSender struct {
	endpoint   string
	authToken  string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
}

// SenderOption configures HTTPSender.
type SenderOption func(*HTTPSender)

// WithSendTimeout sets HTTP client timeout.
func WithSendTimeout(d time.Duration) SenderOption {
	return func(s *HTTPSender) {
		s.client.Timeout = d
	}
}

// WithSendMaxRetries sets maximum retry attempts.
func WithSendMaxRetries(n int) SenderOption {
	return func(s *HTTPSender) {
		s.maxRetries = n
	}
}

// WithSenderHTTPClient sets a custom http.Client.
func WithSenderHTTPClient(client *http.Client) SenderOption {
	return func(s *HTTPSender) {
		s.client = client
	}
}

// NewHTTPSender creates a sender for the given gateway base URL. The auth
// token is sent as a bearer token; pass empty for unauthenticated gateways.
func NewHTTPSender(endpoint, authToken string, opts ...SenderOption) *HTTPSender {
	s := &HTTPSender{
		endpoint:   endpoint,
		authToken:  authToken,
		client:     &http.Client{Timeout: DefaultSendTimeout},
		maxRetries: DefaultSendMaxRetries,
		retryDelay: DefaultSendRetryDelay,
		maxDelay:   DefaultSendMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Sender = (*HTTPSender)(nil)

// Send posts the message to the gateway, retrying transient failures with
// exponential backoff. A 4xx response is not retried.
func (s *HTTPSender) Send(ctx context.Context, msg domain.OutboundMessage) (string, error) {
	payload, err := json.Marshal(sendRequest{To: msg.To, Text: msg.Text})
	if err != nil {
		return "", fmt.Errorf("marshal send request: %w", err)
	}

	var lastErr error
	delay := s.retryDelay
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > s.maxDelay {
				delay = s.maxDelay
			}
		}

		var id string
		var retryable bool
		id, retryable, lastErr = s.sendOnce(ctx, payload)
		if lastErr == nil {
			observability.RecordMessageSent()
			return id, nil
		}
		if !retryable || ctx.Err() != nil {
			return "", lastErr
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", s.maxRetries+1, lastErr)
}

func (s *HTTPSender) sendOnce(ctx context.Context, payload []byte) (id string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("gateway status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("gateway status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var sr sendResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	return sr.MessageID, false, nil
}

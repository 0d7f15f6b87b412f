package ephemeris

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

// Default configuration values.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient implements Provider against a Swiss Ephemeris sidecar service.
// Retry policy lives here, not in the chart assembler: the assembler makes
// exactly one logical call per body.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new ephemeris HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Provider = (*HTTPClient)(nil)

type longitudeRequest struct {
	Body      string  `json:"body"`
	JulianDay float64 `json:"julian_day"`
}

type longitudeResponse struct {
	Longitude float64  `json:"longitude"`
	Speed     *float64 `json:"speed,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type ascendantRequest struct {
	JulianDay float64 `json:"julian_day"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ascendantResponse struct {
	Ascendant float64 `json:"ascendant"`
	Error     string  `json:"error,omitempty"`
}

// Longitude queries the sidecar for one body's position.
func (c *HTTPClient) Longitude(ctx context.Context, body domain.Body, julianDay float64) (domain.BodyPosition, error) {
	if !body.Valid() {
		return domain.BodyPosition{}, fmt.Errorf("%w: unknown body %q", ErrUnavailable, body)
	}

	var resp longitudeResponse
	start := time.Now()
	err := c.post(ctx, "/v1/longitude", longitudeRequest{Body: string(body), JulianDay: julianDay}, &resp)
	observability.RecordEphemerisCall("longitude", time.Since(start).Seconds(), err)
	if err != nil {
		return domain.BodyPosition{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.Error != "" {
		return domain.BodyPosition{}, fmt.Errorf("%w: %s", ErrUnavailable, resp.Error)
	}

	return domain.BodyPosition{Longitude: resp.Longitude, Speed: resp.Speed}, nil
}

// Ascendant queries the sidecar for the rising degree.
func (c *HTTPClient) Ascendant(ctx context.Context, julianDay, lat, lon float64) (float64, error) {
	var resp ascendantResponse
	start := time.Now()
	err := c.post(ctx, "/v1/ascendant", ascendantRequest{JulianDay: julianDay, Latitude: lat, Longitude: lon}, &resp)
	observability.RecordEphemerisCall("ascendant", time.Since(start).Seconds(), err)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("%w: %s", ErrUnavailable, resp.Error)
	}
	return resp.Ascendant, nil
}

// post performs a JSON POST with retries and exponential backoff.
func (c *HTTPClient) post(ctx context.Context, path string, reqBody, result interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		lastErr = c.doOnce(ctx, path, payload, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *HTTPClient) doOnce(ctx context.Context, path string, payload []byte, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

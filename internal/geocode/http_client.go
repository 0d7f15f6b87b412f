package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"astro-whatsapp-bot/internal/observability"
)

// DefaultTimeout is the default geocoder HTTP timeout.
const DefaultTimeout = 10 * time.Second

// HTTPClient implements Geocoder against a Nominatim-style service that
// has been extended with a timezone offset per result.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a new geocoder client.
func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
}

var _ Geocoder = (*HTTPClient)(nil)

type searchResult struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat,string"`
	Lon         float64 `json:"lon,string"`
	UTCOffset   float64 `json:"utc_offset"`
}

// Resolve looks up a place name. The first result wins, matching the
// behavior users expect from the bot's short replies.
func (c *HTTPClient) Resolve(ctx context.Context, place string) (*Place, error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", c.endpoint, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.RecordGeocodeCall(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", place, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode %q: status %d", place, resp.StatusCode)
	}

	var results []searchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, place)
	}

	r := results[0]
	return &Place{
		DisplayName: r.DisplayName,
		Location:    domainCoordinate(r.Lat, r.Lon),
		UTCOffset:   r.UTCOffset,
	}, nil
}

package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "new delhi", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name":"New Delhi, Delhi, India","lat":"28.6139","lon":"77.2090","utc_offset":5.5}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	p, err := c.Resolve(context.Background(), "new delhi")
	require.NoError(t, err)
	assert.Equal(t, "New Delhi, Delhi, India", p.DisplayName)
	assert.InDelta(t, 28.6139, p.Location.Latitude, 1e-9)
	assert.InDelta(t, 77.2090, p.Location.Longitude, 1e-9)
	assert.Equal(t, 5.5, p.UTCOffset)
}

func TestHTTPClient_ResolveNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Resolve(context.Background(), "atlantis")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStub_Resolve(t *testing.T) {
	s := NewStub()

	p, err := s.Resolve(context.Background(), "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, 5.5, p.UTCOffset)

	// Case and whitespace insensitive.
	p2, err := s.Resolve(context.Background(), "  mumbai ")
	require.NoError(t, err)
	assert.Equal(t, p.DisplayName, p2.DisplayName)

	_, err = s.Resolve(context.Background(), "nowhere")
	require.ErrorIs(t, err, ErrNotFound)
}

package whatsapp

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/domain"
)

const (
	testAppSecret   = "test-app-secret"
	testVerifyToken = "test-verify-token"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newTestWebhook(t *testing.T) (*Webhook, *[]domain.InboundMessage) {
	t.Helper()
	var received []domain.InboundMessage
	wh := NewWebhook(testAppSecret, testVerifyToken, func(msg domain.InboundMessage) {
		received = append(received, msg)
	}, nil)
	return wh, &received
}

func TestWebhook_VerifyHandshake(t *testing.T) {
	wh, _ := newTestWebhook(t)

	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", testVerifyToken)
	q.Set("hub.challenge", "challenge-42")

	req := httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "challenge-42", string(body))
}

func TestWebhook_VerifyHandshakeRejected(t *testing.T) {
	wh, _ := newTestWebhook(t)

	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", "wrong")
	q.Set("hub.challenge", "challenge-42")

	req := httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhook_SignedEvent(t *testing.T) {
	wh, received := newTestWebhook(t)

	body := []byte(`{"messages":[{"id":"m1","from":"+919876543210","text":"chart","timestamp_ms":1700000000000}]}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(testAppSecret, body))
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *received, 1)
	msg := (*received)[0]
	assert.Equal(t, "m1", msg.MessageID)
	assert.Equal(t, "+919876543210", msg.From)
	assert.Equal(t, "chart", msg.Text)
	assert.Equal(t, int64(1700000000000), msg.TimestampMs)
}

func TestWebhook_BadSignature(t *testing.T) {
	wh, received := newTestWebhook(t)

	body := []byte(`{"messages":[{"id":"m1","from":"+1","text":"chart","timestamp_ms":1}]}`)

	tests := []struct {
		name   string
		header string
	}{
		{"wrong secret", sign("other-secret", body)},
		{"missing prefix", hex.EncodeToString([]byte("whatever"))},
		{"not hex", "sha256=zz"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
			req.Header.Set("X-Hub-Signature-256", tt.header)
			rec := httptest.NewRecorder()
			wh.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Empty(t, *received)
}

func TestWebhook_BadPayload(t *testing.T) {
	wh, received := newTestWebhook(t)

	body := []byte(`not json`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(testAppSecret, body))
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, *received)
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	wh, _ := newTestWebhook(t)

	req := httptest.NewRequest(http.MethodDelete, "/webhook", nil)
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/observability"
)

// MessageHandler consumes one inbound message. Called synchronously from
// the webhook; long work belongs behind the processor's own queueing.
type MessageHandler func(msg domain.InboundMessage)

// webhookPayload is the gateway's webhook POST body.
type webhookPayload struct {
	Messages []gatewayMessage `json:"messages"`
}

// Webhook receives inbound messages pushed by the gateway over HTTPS, as an
// alternative to the WebSocket stream. POST bodies are authenticated with
// an HMAC-SHA256 signature; GET implements the subscription handshake.
type Webhook struct {
	appSecret   string
	verifyToken string
	handler     MessageHandler
	logger      *zap.SugaredLogger
}

// NewWebhook creates a webhook endpoint. appSecret signs POST bodies;
// verifyToken answers the GET handshake.
func NewWebhook(appSecret, verifyToken string, handler MessageHandler, logger *zap.SugaredLogger) *Webhook {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Webhook{
		appSecret:   appSecret,
		verifyToken: verifyToken,
		handler:     handler,
		logger:      logger,
	}
}

var _ http.Handler = (*Webhook)(nil)

func (w *Webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.handleVerify(rw, r)
	case http.MethodPost:
		w.handleEvent(rw, r)
	default:
		rw.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleVerify answers the gateway's subscription handshake: echo the
// challenge when the verify token matches.
func (w *Webhook) handleVerify(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != w.verifyToken {
		rw.WriteHeader(http.StatusForbidden)
		return
	}
	rw.WriteHeader(http.StatusOK)
	rw.Write([]byte(q.Get("hub.challenge")))
}

func (w *Webhook) handleEvent(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		rw.WriteHeader(http.StatusBadRequest)
		return
	}

	if !w.validSignature(body, r.Header.Get("X-Hub-Signature-256")) {
		observability.RecordProcessingError("webhook_signature")
		w.logger.Warnw("webhook signature rejected", "remote", r.RemoteAddr)
		rw.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		observability.RecordProcessingError("webhook_decode")
		rw.WriteHeader(http.StatusBadRequest)
		return
	}

	for i := range payload.Messages {
		w.handler(payload.Messages[i].toDomain())
	}
	rw.WriteHeader(http.StatusOK)
}

// validSignature checks the hex HMAC-SHA256 of the raw body against the
// "sha256=" header value in constant time.
func (w *Webhook) validSignature(body []byte, header string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	want, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(w.appSecret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}

// Package whatsapp connects the bot to a WhatsApp gateway sidecar.
// Inbound messages arrive over a WebSocket stream or a signed webhook;
// outbound replies go through the gateway's REST API.
package whatsapp

import "astro-whatsapp-bot/internal/domain"

// gatewayEvent is one frame on the gateway WebSocket stream.
type gatewayEvent struct {
	Type    string          `json:"type"`
	Message *gatewayMessage `json:"message,omitempty"`
}

// gatewayMessage mirrors the gateway's inbound message payload.
type gatewayMessage struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	Text        string `json:"text"`
	TimestampMs int64  `json:"timestamp_ms"`
}

func (m *gatewayMessage) toDomain() domain.InboundMessage {
	return domain.InboundMessage{
		MessageID:   m.ID,
		From:        m.From,
		Text:        m.Text,
		TimestampMs: m.TimestampMs,
	}
}

// sendRequest is the gateway's outbound message payload.
type sendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// sendResponse is the gateway's acknowledgment.
type sendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

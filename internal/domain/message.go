package domain

// InboundMessage is one user message received from the WhatsApp gateway.
type InboundMessage struct {
	MessageID   string
	From        string // sender phone, E.164
	Text        string
	TimestampMs int64
}

// OutboundMessage is one bot reply handed to the gateway sender.
type OutboundMessage struct {
	To   string
	Text string
}

// Message direction constants for analytics events.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// MessageEvent is one analytics record for the message pipeline.
// Corresponds to message_events table in ClickHouse. Append-only.
type MessageEvent struct {
	EventID     string
	Phone       string
	Direction   string // "in" | "out"
	Intent      string // resolved intent for inbound, reading kind for outbound
	LatencyMs   int64  // processing latency for outbound events, 0 for inbound
	TimestampMs int64
}

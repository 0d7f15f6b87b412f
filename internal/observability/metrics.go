// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Message pipeline metrics
	MessagesReceived  prometheus.Counter
	MessagesSent      prometheus.Counter
	MessageIntents    *prometheus.CounterVec
	ProcessingErrors  *prometheus.CounterVec
	ProcessingLatency prometheus.Histogram

	// Reading metrics
	ReadingsGenerated *prometheus.CounterVec
	ChartsAssembled   prometheus.Counter
	BodiesUnavailable *prometheus.CounterVec

	// Collaborator metrics
	EphemerisCallLatency *prometheus.HistogramVec
	EphemerisCallErrors  *prometheus.CounterVec
	GeocodeCallLatency   prometheus.Histogram
	GatewayReconnects    prometheus.Counter

	// Session metrics
	SessionOps *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastInboundMessage prometheus.Gauge
	UptimeSeconds      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "astro_bot"
	}

	return &Metrics{
		MessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "whatsapp",
			Name:      "messages_received_total",
			Help:      "Total number of inbound messages received from the gateway",
		}),
		MessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "whatsapp",
			Name:      "messages_sent_total",
			Help:      "Total number of outbound messages sent through the gateway",
		}),
		MessageIntents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "whatsapp",
			Name:      "message_intents_total",
			Help:      "Total number of inbound messages by resolved intent",
		}, []string{"intent"}),
		ProcessingErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "whatsapp",
			Name:      "processing_errors_total",
			Help:      "Total number of message processing errors by stage",
		}, []string{"stage"}),
		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "whatsapp",
			Name:      "processing_latency_seconds",
			Help:      "Inbound message processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		ReadingsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reading",
			Name:      "generated_total",
			Help:      "Total number of readings generated by kind",
		}, []string{"kind"}),
		ChartsAssembled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "assembled_total",
			Help:      "Total number of charts assembled",
		}),
		BodiesUnavailable: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "bodies_unavailable_total",
			Help:      "Total number of per-body ephemeris failures by body",
		}, []string{"body"}),

		EphemerisCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "call_latency_seconds",
			Help:      "Ephemeris sidecar call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		EphemerisCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "call_errors_total",
			Help:      "Total number of ephemeris sidecar call errors",
		}, []string{"method"}),
		GeocodeCallLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "geocode",
			Name:      "call_latency_seconds",
			Help:      "Geocoder call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		GatewayReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "whatsapp",
			Name:      "gateway_reconnects_total",
			Help:      "Total number of gateway WebSocket reconnects",
		}),

		SessionOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "ops_total",
			Help:      "Total number of session store operations by op",
		}, []string{"op"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastInboundMessage: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_inbound_message_timestamp",
			Help:      "Unix timestamp of last inbound message",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordMessageReceived increments the inbound message counters.
func RecordMessageReceived(intent string, timestampMs int64) {
	DefaultMetrics.MessagesReceived.Inc()
	DefaultMetrics.MessageIntents.WithLabelValues(intent).Inc()
	DefaultMetrics.LastInboundMessage.Set(float64(timestampMs) / 1000)
}

// RecordMessageSent increments the outbound message counter.
func RecordMessageSent() {
	DefaultMetrics.MessagesSent.Inc()
}

// RecordProcessingError records a message processing error.
func RecordProcessingError(stage string) {
	DefaultMetrics.ProcessingErrors.WithLabelValues(stage).Inc()
}

// RecordProcessingLatency records inbound message processing latency.
func RecordProcessingLatency(seconds float64) {
	DefaultMetrics.ProcessingLatency.Observe(seconds)
}

// RecordReadingGenerated increments the readings counter for a kind.
func RecordReadingGenerated(kind string) {
	DefaultMetrics.ReadingsGenerated.WithLabelValues(kind).Inc()
}

// RecordChartAssembled increments the charts assembled counter.
func RecordChartAssembled() {
	DefaultMetrics.ChartsAssembled.Inc()
}

// RecordBodyUnavailable records a per-body ephemeris failure.
func RecordBodyUnavailable(body string) {
	DefaultMetrics.BodiesUnavailable.WithLabelValues(body).Inc()
}

// RecordEphemerisCall records ephemeris call latency and errors.
func RecordEphemerisCall(method string, seconds float64, err error) {
	DefaultMetrics.EphemerisCallLatency.WithLabelValues(method).Observe(seconds)
	if err != nil {
		DefaultMetrics.EphemerisCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordGeocodeCall records geocoder call latency.
func RecordGeocodeCall(seconds float64) {
	DefaultMetrics.GeocodeCallLatency.Observe(seconds)
}

// RecordGatewayReconnect increments the gateway reconnect counter.
func RecordGatewayReconnect() {
	DefaultMetrics.GatewayReconnects.Inc()
}

// RecordUptime adds elapsed process time to the uptime counter.
func RecordUptime(seconds float64) {
	DefaultMetrics.UptimeSeconds.Add(seconds)
}

// RecordSessionOp records a session store operation.
func RecordSessionOp(op string) {
	DefaultMetrics.SessionOps.WithLabelValues(op).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

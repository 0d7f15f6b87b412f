package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUptime(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.UptimeSeconds)

	RecordUptime(15)
	RecordUptime(15)

	after := testutil.ToFloat64(DefaultMetrics.UptimeSeconds)
	assert.InDelta(t, 30, after-before, 1e-9)
}

func TestRecordMessageReceived(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.MessagesReceived)

	RecordMessageReceived("chart", 1700000000000)

	assert.InDelta(t, 1, testutil.ToFloat64(DefaultMetrics.MessagesReceived)-before, 1e-9)
	assert.InDelta(t, 1700000000, testutil.ToFloat64(DefaultMetrics.LastInboundMessage), 1e-9)
}

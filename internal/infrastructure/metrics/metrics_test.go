package metrics_test

import (
	"testing"
	"time"

	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveScan("resolve", "OK", time.Millisecond)
		m.MovementRecorded("PRODUCTION")
		m.FulfillmentFailed()
		m.NoopReversal()
	})
}

func TestMetrics_Cuenta(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ObserveScan("handle", "OK", time.Millisecond)
	m.ObserveScan("handle", "OK", time.Millisecond)
	m.ObserveScan("handle", "DUPLICATE", time.Millisecond)
	m.MovementRecorded("SCAN_DEDUCTION")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScanResults().WithLabelValues("OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScanResults().WithLabelValues("DUPLICATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Movements().WithLabelValues("SCAN_DEDUCTION")))
}

// Package metrics expone los contadores Prometheus del motor de escaneo y del libro de inventario.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	scanResults         *prometheus.CounterVec
	scanDuration        *prometheus.HistogramVec
	movements           *prometheus.CounterVec
	fulfillmentFailures prometheus.Counter
	noopReversals       prometheus.Counter
}

// New crea los colectores y los registra en reg (usar prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scanResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fabrica",
			Subsystem: "scan",
			Name:      "results_total",
			Help:      "Intentos de escaneo por estado final.",
		}, []string{"status"}),
		scanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fabrica",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Duración de la resolución de un escaneo.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fabrica",
			Subsystem: "ledger",
			Name:      "movements_total",
			Help:      "Movimientos de inventario registrados por origen.",
		}, []string{"origin"}),
		fulfillmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fabrica",
			Subsystem: "scan",
			Name:      "fulfillment_failures_total",
			Help:      "Despachos revertidos por error de negocio.",
		}),
		noopReversals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fabrica",
			Subsystem: "reversal",
			Name:      "noop_total",
			Help:      "Cancelaciones de escaneo sin pedido BIPADO asociado.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.scanResults, m.scanDuration, m.movements, m.fulfillmentFailures, m.noopReversals)
	}
	return m
}

// ObserveScan registra el estado final y la duración de un escaneo.
func (m *Metrics) ObserveScan(operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scanResults.WithLabelValues(status).Inc()
	m.scanDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// MovementRecorded cuenta un movimiento confirmado.
func (m *Metrics) MovementRecorded(origin string) {
	if m == nil {
		return
	}
	m.movements.WithLabelValues(origin).Inc()
}

// FulfillmentFailed cuenta un despacho revertido.
func (m *Metrics) FulfillmentFailed() {
	if m == nil {
		return
	}
	m.fulfillmentFailures.Inc()
}

// NoopReversal cuenta una cancelación sin efecto en stock.
func (m *Metrics) NoopReversal() {
	if m == nil {
		return
	}
	m.noopReversals.Inc()
}

// ScanResults expone el contador para pruebas.
func (m *Metrics) ScanResults() *prometheus.CounterVec { return m.scanResults }

// Movements expone el contador para pruebas.
func (m *Metrics) Movements() *prometheus.CounterVec { return m.movements }

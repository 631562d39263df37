package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records outcomes and timings for deposit and sale
// settlements.
type SettlementMetrics struct {
	total    *prometheus.CounterVec
	lines    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_total",
		Help: "Completed settlement operations by kind and outcome.",
	}, []string{"kind", "outcome"})
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_lines_total",
		Help: "Per-line stock update outcomes across sale settlements.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "End-to-end duration of settlement operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(total, lines, duration)
	return &SettlementMetrics{
		total:    total,
		lines:    lines,
		duration: duration,
	}
}

// IncSettlement counts one finished settlement of the given kind.
func (s *SettlementMetrics) IncSettlement(kind, outcome string) {
	if s == nil || s.total == nil {
		return
	}
	s.total.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncLine counts one per-line stock update outcome.
func (s *SettlementMetrics) IncLine(outcome string) {
	if s == nil || s.lines == nil {
		return
	}
	s.lines.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveDuration records how long a settlement of the given kind took.
func (s *SettlementMetrics) ObserveDuration(kind string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

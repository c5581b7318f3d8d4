package metrics

import (
	"time"

	"idlwrap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseMetrics tracks interface file parsing.
//
// Metrics:
//   - idlwrap_frontend_parse_duration_seconds: Time to parse and build one file
//   - idlwrap_frontend_parse_errors_total: Parse failures by type
//   - idlwrap_frontend_declarations: Declarations in the last checked file by kind
type ParseMetrics struct {
	parseDuration    prometheus.Histogram
	parseErrorsTotal *prometheus.CounterVec
	declarations     *prometheus.GaugeVec
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Duration of interface file parsing in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
			},
		),

		parseErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_errors_total",
				Help:      "Total number of interface file parse errors by type",
			},
			[]string{"type"},
		),

		declarations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "declarations",
				Help:      "Number of declarations in the last checked source unit by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		pm.parseDuration,
		pm.parseErrorsTotal,
		pm.declarations,
	)

	return pm
}

// RecordParse records the duration of one parse.
func (pm *ParseMetrics) RecordParse(duration time.Duration) {
	pm.parseDuration.Observe(duration.Seconds())
}

// RecordError records a parse error.
func (pm *ParseMetrics) RecordError(errorType string) {
	pm.parseErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetDeclarations replaces the per-kind declaration gauges.
func (pm *ParseMetrics) SetDeclarations(counts map[string]int) {
	pm.declarations.Reset()
	for kind, n := range counts {
		pm.declarations.WithLabelValues(kind).Set(float64(n))
	}
}

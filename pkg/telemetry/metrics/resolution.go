package metrics

import (
	"time"

	"idlwrap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetrics tracks typename resolution.
//
// Metrics:
//   - idlwrap_frontend_resolutions_total: Resolutions by outcome
//   - idlwrap_frontend_resolution_duration_seconds: Resolution duration
//   - idlwrap_frontend_validation_errors_total: Validator diagnostics by type
type ResolutionMetrics struct {
	resolutionsTotal      *prometheus.CounterVec
	resolutionDuration    prometheus.Histogram
	validationErrorsTotal *prometheus.CounterVec
}

// NewResolutionMetrics creates and registers resolution metrics with the provided registry.
func NewResolutionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ResolutionMetrics {
	rm := &ResolutionMetrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolutions_total",
				Help:      "Total number of typename resolutions by outcome",
			},
			[]string{"outcome"},
		),

		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Duration of typename resolution in seconds",
				Buckets:   cfg.ResolutionDurationBuckets,
			},
		),

		validationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_errors_total",
				Help:      "Total number of reference validation errors by type",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(
		rm.resolutionsTotal,
		rm.resolutionDuration,
		rm.validationErrorsTotal,
	)

	return rm
}

// RecordResolution records a resolution outcome and its duration.
func (rm *ResolutionMetrics) RecordResolution(outcome string, duration time.Duration) {
	rm.resolutionsTotal.WithLabelValues(outcome).Inc()
	rm.resolutionDuration.Observe(duration.Seconds())
}

// RecordValidationError records a validator diagnostic.
func (rm *ResolutionMetrics) RecordValidationError(errorType string) {
	rm.validationErrorsTotal.WithLabelValues(errorType).Inc()
}

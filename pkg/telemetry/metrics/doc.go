// Package metrics provides Prometheus metrics collection for idlwrap.
//
// # Metrics
//
//   - resolutions_total{outcome}: typename resolutions (resolved, not_found, ambiguous, external)
//   - resolution_duration_seconds: time spent resolving one typename
//   - parse_duration_seconds: time spent parsing and building one file
//   - parse_errors_total{type}: parse failures
//   - declarations{kind}: declarations in the last checked source unit
//   - validation_errors_total{type}: diagnostics from the reference validator
//
// All names carry the configured namespace and subsystem prefix
// (idlwrap_frontend_ by default).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordResolution(metrics.OutcomeResolved, time.Since(start))
//
//	// Watch mode
//	http.Handle("/metrics", collector.Handler())
//
//	// Batch runs
//	collector.WriteTextfile("idlwrap.prom")
//
// A nil *Collector is accepted by every Record method, so callers that run
// without metrics pass nil rather than checking.
package metrics

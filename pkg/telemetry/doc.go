// Package telemetry groups the observability packages of idlwrap.
//
//   - logging: structured logging on log/slog
//   - metrics: Prometheus metrics of parsing and reference resolution
//   - tracing: OpenTelemetry spans per check run and interface file
//   - health: liveness and readiness endpoints of the watch server
//
// All four are configured from the telemetry section of idlwrap.yaml.
package telemetry

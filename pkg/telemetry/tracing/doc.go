// Package tracing provides OpenTelemetry tracing for idlwrap runs.
//
// A check run is one trace: the run span is the root and every interface file
// gets a child span covering parsing and reference validation. Spans are
// exported over OTLP gRPC to the collector at telemetry.tracing.endpoint.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: always        # always, never or ratio
//	    sample_ratio: 0.1      # only with sampler: ratio
//	    endpoint: localhost:4317
//	    insecure: true
//	    timeout: 10s
//
// When tracing is disabled New returns a tracer backed by the noop provider,
// so callers create spans unconditionally.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanCheckFile)
//	tracing.SetFileAttributes(span, path)
//	defer span.End()
//
// The tracer must be shut down before the process exits or buffered spans are
// lost.
package tracing

package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"idlwrap/pkg/config"
)

func newTestTracer(t *testing.T, sampler string) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&config.TracingConfig{Enabled: true, Sampler: sampler}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{"nil config", nil, true, false},
		{"disabled tracing", &config.TracingConfig{Enabled: false}, false, false},
		{
			"enabled with otlp exporter",
			&config.TracingConfig{Enabled: true, Sampler: SamplerAlways, Endpoint: "localhost:4317", Insecure: true},
			false, true,
		},
		{
			"enabled with bad sampler",
			&config.TracingConfig{Enabled: true, Sampler: "sometimes", Endpoint: "localhost:4317", Insecure: true},
			true, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())
			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestTracer_DisabledIsNoop(t *testing.T) {
	tracer, err := New(&config.TracingConfig{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), SpanCheck)
	defer span.End()

	if span.IsRecording() {
		t.Error("disabled tracer should not record spans")
	}
	if id := TraceID(ctx); id != "" {
		t.Errorf("TraceID() = %q, want empty", id)
	}
	if err := tracer.ForceFlush(ctx); err != nil {
		t.Errorf("ForceFlush() error = %v", err)
	}
	if err := tracer.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_RunAndFileSpans(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	ctx, run := tracer.Start(context.Background(), SpanCheck)
	SetRunAttributes(run, "interface/", "abc123", 2)
	if TraceID(ctx) == "" {
		t.Error("expected a trace ID inside the run span")
	}

	_, file := tracer.Start(ctx, SpanCheckFile)
	SetFileAttributes(file, "interface/gtsam.i")
	SetResultAttributes(file, 14, 1)
	SetError(file, errors.New("unresolved reference"))
	file.End()

	SetError(run, nil)
	run.End()

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	fileSpan, runSpan := spans[0], spans[1]
	if fileSpan.Name != SpanCheckFile || runSpan.Name != SpanCheck {
		t.Fatalf("unexpected span order: %s, %s", fileSpan.Name, runSpan.Name)
	}
	if fileSpan.Parent.SpanID() != runSpan.SpanContext.SpanID() {
		t.Error("file span should be a child of the run span")
	}
	if fileSpan.Status.Code != codes.Error {
		t.Errorf("file span status = %v, want Error", fileSpan.Status.Code)
	}
	if runSpan.Status.Code != codes.Ok {
		t.Errorf("run span status = %v, want Ok", runSpan.Status.Code)
	}
	if len(fileSpan.Events) == 0 {
		t.Error("expected the error to be recorded as an event")
	}

	if v, ok := attrValue(fileSpan.Attributes, AttrDeclarations); !ok || v.AsInt64() != 14 {
		t.Errorf("declarations attribute = %v", v.Emit())
	}
	if v, ok := attrValue(runSpan.Attributes, AttrCommit); !ok || v.AsString() != "abc123" {
		t.Errorf("commit attribute = %v", v.Emit())
	}
}

func TestTracer_NeverSampler(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever)

	_, span := tracer.Start(context.Background(), SpanResolve)
	SetResolveAttributes(span, "gtsam::Pose3", "")
	span.End()

	tracer.ForceFlush(context.Background())
	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("expected no exported spans, got %d", n)
	}
}

func TestSetResolveAttributes_OmitsEmptyScope(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	_, span := tracer.Start(context.Background(), SpanResolve)
	SetResolveAttributes(span, "Pose3", "")
	span.End()
	tracer.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if _, ok := attrValue(spans[0].Attributes, AttrScope); ok {
		t.Error("scope attribute should be omitted when empty")
	}
	if v, _ := attrValue(spans[0].Attributes, AttrTypename); v.AsString() != "Pose3" {
		t.Errorf("typename attribute = %q", v.AsString())
	}
}

package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanCheck     = "idlwrap.check"
	SpanCheckFile = "idlwrap.check_file"
	SpanResolve   = "idlwrap.resolve"
	SpanRecord    = "idlwrap.index.record"
)

// Attribute keys use the "idlwrap.*" namespace.
const (
	AttrSource       = "idlwrap.source"
	AttrCommit       = "idlwrap.commit"
	AttrFile         = "idlwrap.file"
	AttrFiles        = "idlwrap.files"
	AttrDeclarations = "idlwrap.declarations"
	AttrErrors       = "idlwrap.errors"
	AttrTypename     = "idlwrap.typename"
	AttrScope        = "idlwrap.scope"
	AttrKind         = "idlwrap.kind"
	AttrRunID        = "idlwrap.run_id"
)

// SetRunAttributes describes a check run over files from source.
func SetRunAttributes(span trace.Span, source, commit string, files int) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrSource, source),
		attribute.Int(AttrFiles, files),
	}
	if commit != "" {
		attrs = append(attrs, attribute.String(AttrCommit, commit))
	}
	span.SetAttributes(attrs...)
}

// SetFileAttributes names the interface file a span covers.
func SetFileAttributes(span trace.Span, path string) {
	span.SetAttributes(attribute.String(AttrFile, path))
}

// SetResultAttributes records the outcome of checking one file or a whole run.
func SetResultAttributes(span trace.Span, declarations, errors int) {
	span.SetAttributes(
		attribute.Int(AttrDeclarations, declarations),
		attribute.Int(AttrErrors, errors),
	)
}

// SetResolveAttributes describes one typename lookup.
func SetResolveAttributes(span trace.Span, typename, scope string) {
	attrs := []attribute.KeyValue{attribute.String(AttrTypename, typename)}
	if scope != "" {
		attrs = append(attrs, attribute.String(AttrScope, scope))
	}
	span.SetAttributes(attrs...)
}

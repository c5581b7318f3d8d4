package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the id of one check or index run.
	RunIDKey contextKey = "run_id"

	// SourceFileKey is the context key for the interface file being processed.
	SourceFileKey contextKey = "source_file"

	// NamespaceKey is the context key for the namespace being processed.
	NamespaceKey contextKey = "namespace"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithSourceFile adds an interface file path to the context.
func WithSourceFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, SourceFileKey, path)
}

// GetSourceFile retrieves the interface file path from the context.
func GetSourceFile(ctx context.Context) string {
	if path, ok := ctx.Value(SourceFileKey).(string); ok {
		return path
	}
	return ""
}

// WithNamespace adds a qualified namespace name to the context.
func WithNamespace(ctx context.Context, namespace string) context.Context {
	return context.WithValue(ctx, NamespaceKey, namespace)
}

// GetNamespace retrieves the namespace from the context.
func GetNamespace(ctx context.Context) string {
	if ns, ok := ctx.Value(NamespaceKey).(string); ok {
		return ns
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, "run_id", runID)
	}
	if path := GetSourceFile(ctx); path != "" {
		fields = append(fields, "source_file", path)
	}
	if ns := GetNamespace(ctx); ns != "" {
		fields = append(fields, "namespace", ns)
	}

	return fields
}

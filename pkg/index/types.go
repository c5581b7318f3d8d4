package index

import (
	"context"
	"fmt"
	"time"
)

// Run is one indexing pass over a set of interface files.
type Run struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`           // Directory, file or repository URL
	Commit       string    `json:"commit,omitempty"` // Commit hash for git sources
	StartedAt    time.Time `json:"started_at"`
	Files        int       `json:"files"`
	Declarations int       `json:"declarations"`
}

// Record is one indexed declaration.
type Record struct {
	RunID         string    `json:"run_id"`
	File          string    `json:"file"`
	Kind          string    `json:"kind"`
	Name          string    `json:"name"`
	QualifiedName string    `json:"qualified_name"` // e.g. "gtsam::noiseModel::Base"
	Namespace     string    `json:"namespace"`      // Enclosing path, "" at top level
	Line          int       `json:"line"`
	Column        int       `json:"column"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Query selects records. Zero-valued fields do not filter.
type Query struct {
	RunID     string `json:"run_id,omitempty"`
	File      string `json:"file,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"` // Exact enclosing path

	// LatestRun restricts results to the most recent run. Ignored when RunID is set.
	LatestRun bool `json:"latest_run,omitempty"`

	// Time range
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive start time
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive end time

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max records to return
	Offset int `json:"offset,omitempty"` // Skip N records
}

// Validate checks the query for inconsistent filters.
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return NewQueryError(q, fmt.Errorf("limit must be non-negative, got %d", q.Limit))
	}
	if q.Offset < 0 {
		return NewQueryError(q, fmt.Errorf("offset must be non-negative, got %d", q.Offset))
	}
	if q.StartTime != nil && q.EndTime != nil && q.EndTime.Before(*q.StartTime) {
		return NewQueryError(q, fmt.Errorf("end time %s is before start time %s", q.EndTime, q.StartTime))
	}
	return nil
}

// Storage defines the interface for index storage backends.
// Implementations must be thread-safe and support concurrent access.
type Storage interface {
	// StoreRun persists a run and its records atomically.
	StoreRun(ctx context.Context, run *Run, records []*Record) error

	// Query retrieves records matching the query filters, newest run first and
	// by qualified name within a run. Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Runs returns recorded runs, newest first. limit <= 0 returns all.
	Runs(ctx context.Context, limit int) ([]*Run, error)

	// Prune deletes runs started before olderThan together with their records.
	// It returns the number of runs deleted.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}

package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"idlwrap/pkg/index"
)

// MemoryStorage implements index.Storage in memory.
// Contents are lost when the process exits.
type MemoryStorage struct {
	runs    map[string]*index.Run
	records []*index.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs: make(map[string]*index.Run),
	}
}

// StoreRun persists a run and its records.
func (s *MemoryStorage) StoreRun(ctx context.Context, run *index.Run, records []*index.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		return index.NewStorageError("memory", "store_run", fmt.Errorf("run %s already stored", run.ID))
	}

	runCopy := *run
	s.runs[run.ID] = &runCopy
	for _, r := range records {
		recordCopy := *r
		recordCopy.RunID = run.ID
		s.records = append(s.records, &recordCopy)
	}
	return nil
}

// Query retrieves records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, query *index.Query) ([]*index.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	runID := query.RunID
	if runID == "" && query.LatestRun {
		if latest := s.sortedRuns(); len(latest) > 0 {
			runID = latest[0].ID
		} else {
			return []*index.Record{}, nil
		}
	}

	results := []*index.Record{}
	for _, r := range s.records {
		if runID != "" && r.RunID != runID {
			continue
		}
		if !matchesQuery(r, query) {
			continue
		}
		recordCopy := *r
		results = append(results, &recordCopy)
	}

	slices.SortStableFunc(results, func(a, b *index.Record) int {
		if c := s.runs[b.RunID].StartedAt.Compare(s.runs[a.RunID].StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.QualifiedName, b.QualifiedName)
	})

	start := min(query.Offset, len(results))
	results = results[start:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}
	return results, nil
}

func matchesQuery(r *index.Record, q *index.Query) bool {
	if q.File != "" && r.File != q.File {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Name != "" && r.Name != q.Name {
		return false
	}
	if q.Namespace != "" && r.Namespace != q.Namespace {
		return false
	}
	if q.StartTime != nil && r.RecordedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.RecordedAt.After(*q.EndTime) {
		return false
	}
	return true
}

// Runs returns recorded runs, newest first.
func (s *MemoryStorage) Runs(ctx context.Context, limit int) ([]*index.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.sortedRuns()
	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}

// sortedRuns returns copies of all runs, newest first. Callers hold s.mu.
func (s *MemoryStorage) sortedRuns() []*index.Run {
	runs := make([]*index.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runCopy := *run
		runs = append(runs, &runCopy)
	}
	slices.SortFunc(runs, func(a, b *index.Run) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return runs
}

// Prune deletes runs started before olderThan together with their records.
func (s *MemoryStorage) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, run := range s.runs {
		if run.StartedAt.Before(olderThan) {
			delete(s.runs, id)
			deleted++
		}
	}

	s.records = slices.DeleteFunc(s.records, func(r *index.Record) bool {
		_, ok := s.runs[r.RunID]
		return !ok
	})
	return deleted, nil
}

// Close is a no-op for memory storage.
func (s *MemoryStorage) Close() error {
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver "sqlite3"
	_ "modernc.org/sqlite"          // driver "sqlite"

	"idlwrap/pkg/index"
	"idlwrap/pkg/telemetry/logging"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is the database/sql driver name: "sqlite3" or "sqlite".
	// Default: "sqlite3"
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	Logger *logging.Logger
}

// SQLiteStorage implements index.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *logging.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	cfg := *config
	if cfg.Driver == "" {
		cfg.Driver = "sqlite3"
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 2
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	logger := cfg.Logger.With("component", "index.storage.sqlite", "driver", cfg.Driver)

	if dir := filepath.Dir(cfg.Path); cfg.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, index.NewStorageError(cfg.Driver, "open", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, index.NewStorageError(cfg.Driver, "open", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: &cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite index initialized",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	backend := s.config.Driver

	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return index.NewStorageError(backend, "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return index.NewStorageError(backend, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return index.NewStorageError(backend, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return index.NewStorageError(backend, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return index.NewStorageError(backend, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return index.NewStorageError(backend, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// StoreRun persists a run and its records in one transaction.
func (s *SQLiteStorage) StoreRun(ctx context.Context, run *index.Run, records []*index.Record) error {
	backend := s.config.Driver

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return index.NewStorageError(backend, "begin", err)
	}
	defer tx.Rollback()

	var commit any
	if run.Commit != "" {
		commit = run.Commit
	}
	if _, err := tx.ExecContext(ctx, insertRun,
		run.ID, run.Source, commit, run.StartedAt.UnixNano(), run.Files, run.Declarations,
	); err != nil {
		return index.NewStorageError(backend, "store_run", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertDeclaration)
	if err != nil {
		return index.NewStorageError(backend, "prepare", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			run.ID, r.File, r.Kind, r.Name, r.QualifiedName, r.Namespace,
			r.Line, r.Column, r.RecordedAt.UnixNano(),
		); err != nil {
			return index.NewStorageError(backend, "store_record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return index.NewStorageError(backend, "commit", err)
	}

	s.logger.Debug("run stored", "run_id", run.ID, "records", len(records))
	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *index.Query) ([]*index.Record, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery, args := buildQuery(query)
	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, index.NewStorageError(s.config.Driver, "query", err)
	}
	defer rows.Close()

	records := []*index.Record{}
	for rows.Next() {
		var (
			r          index.Record
			recordedAt int64
		)
		if err := rows.Scan(&r.RunID, &r.File, &r.Kind, &r.Name, &r.QualifiedName, &r.Namespace,
			&r.Line, &r.Column, &recordedAt); err != nil {
			return nil, index.NewStorageError(s.config.Driver, "scan", err)
		}
		r.RecordedAt = time.Unix(0, recordedAt)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, index.NewStorageError(s.config.Driver, "query", err)
	}

	return records, nil
}

// buildQuery constructs the SQL query and arguments from an index.Query.
func buildQuery(query *index.Query) (string, []any) {
	var (
		where []string
		args  []any
	)

	switch {
	case query.RunID != "":
		where = append(where, "d.run_id = ?")
		args = append(args, query.RunID)
	case query.LatestRun:
		where = append(where, "d.run_id = (SELECT id FROM runs ORDER BY started_at DESC LIMIT 1)")
	}
	if query.File != "" {
		where = append(where, "d.file = ?")
		args = append(args, query.File)
	}
	if query.Kind != "" {
		where = append(where, "d.kind = ?")
		args = append(args, query.Kind)
	}
	if query.Name != "" {
		where = append(where, "d.name = ?")
		args = append(args, query.Name)
	}
	if query.Namespace != "" {
		where = append(where, "d.namespace = ?")
		args = append(args, query.Namespace)
	}
	if query.StartTime != nil {
		where = append(where, "d.recorded_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		where = append(where, "d.recorded_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}

	var sb strings.Builder
	sb.WriteString(`SELECT d.run_id, d.file, d.kind, d.name, d.qualified_name, d.namespace,
		d.line_no, d.col_no, d.recorded_at
		FROM declarations d JOIN runs r ON r.id = d.run_id`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY r.started_at DESC, d.qualified_name ASC, d.id ASC")

	if query.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, query.Limit, query.Offset)
	} else if query.Offset > 0 {
		sb.WriteString(" LIMIT -1 OFFSET ?")
		args = append(args, query.Offset)
	}

	return sb.String(), args
}

// Runs returns recorded runs, newest first.
func (s *SQLiteStorage) Runs(ctx context.Context, limit int) ([]*index.Run, error) {
	q := `SELECT id, source, COALESCE(commit_hash, ''), started_at, files, declarations
		FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, index.NewStorageError(s.config.Driver, "runs", err)
	}
	defer rows.Close()

	runs := []*index.Run{}
	for rows.Next() {
		var (
			run       index.Run
			startedAt int64
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.Commit, &startedAt, &run.Files, &run.Declarations); err != nil {
			return nil, index.NewStorageError(s.config.Driver, "scan", err)
		}
		run.StartedAt = time.Unix(0, startedAt)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, index.NewStorageError(s.config.Driver, "runs", err)
	}
	return runs, nil
}

// Prune deletes runs started before olderThan together with their records.
func (s *SQLiteStorage) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	backend := s.config.Driver
	cutoff := olderThan.UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, index.NewStorageError(backend, "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM declarations WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)", cutoff,
	); err != nil {
		return 0, index.NewStorageError(backend, "prune_records", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, index.NewStorageError(backend, "prune_runs", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, index.NewStorageError(backend, "prune_runs", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, index.NewStorageError(backend, "commit", err)
	}

	s.logger.Info("pruned index runs", "deleted", deleted, "older_than", olderThan)
	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return index.NewStorageError(s.config.Driver, "close", err)
	}
	return nil
}

package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the index database schema.
// Timestamps are stored as Unix nanoseconds so both drivers read them back
// identically.
const Schema = `
-- Indexing runs
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    commit_hash TEXT,
    started_at INTEGER NOT NULL,
    files INTEGER NOT NULL,
    declarations INTEGER NOT NULL
);

-- Indexed declarations
CREATE TABLE IF NOT EXISTS declarations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id),
    file TEXT NOT NULL,
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    qualified_name TEXT NOT NULL,
    namespace TEXT NOT NULL,
    line_no INTEGER NOT NULL,
    col_no INTEGER NOT NULL,
    recorded_at INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_declarations_run_id ON declarations(run_id);
CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name);
CREATE INDEX IF NOT EXISTS idx_declarations_namespace ON declarations(namespace);
CREATE INDEX IF NOT EXISTS idx_declarations_file ON declarations(file);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRun = `
INSERT INTO runs (id, source, commit_hash, started_at, files, declarations)
VALUES (?, ?, ?, ?, ?, ?);
`

const insertDeclaration = `
INSERT INTO declarations (run_id, file, kind, name, qualified_name, namespace, line_no, col_no, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

// Package storage provides storage backends for the declaration index.
//
// # Storage Backends
//
//   - SQLite: embedded database, through either the cgo driver
//     (github.com/mattn/go-sqlite3, driver name "sqlite3") or the pure Go
//     driver (modernc.org/sqlite, driver name "sqlite")
//   - Memory: in-memory storage for tests and one-shot runs
//
// # Basic Usage
//
//	store, err := storage.New(cfg.Index)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	records, err := store.Query(ctx, &index.Query{Name: "Pose3", LatestRun: true})
//
// # Schema Migration
//
// The SQLite storage initializes the database schema on first use. The schema
// version is tracked in the schema_version table; opening a database written
// with a different version fails.
package storage

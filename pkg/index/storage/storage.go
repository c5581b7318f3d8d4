package storage

import (
	"fmt"

	"idlwrap/pkg/config"
	"idlwrap/pkg/index"
	"idlwrap/pkg/telemetry/logging"
)

// New opens the backend selected by cfg.Driver.
func New(cfg config.IndexConfig, logger *logging.Logger) (index.Storage, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite3", "sqlite":
		store, err := NewSQLiteStorage(&SQLiteConfig{
			Driver:       cfg.Driver,
			Path:         cfg.Path,
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			WALMode:      true,
			BusyTimeout:  cfg.BusyTimeout,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown index driver %q", cfg.Driver)
	}
}

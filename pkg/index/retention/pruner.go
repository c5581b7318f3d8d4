package retention

import (
	"context"
	"fmt"
	"time"

	"idlwrap/pkg/config"
	"idlwrap/pkg/index"
	"idlwrap/pkg/telemetry/logging"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to keep runs.
	// 0 means keep runs forever (no pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// ConfigFrom extracts the retention settings of an index configuration.
func ConfigFrom(cfg config.IndexConfig) *Config {
	return &Config{
		RetentionDays: cfg.RetentionDays,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Pruner enforces the retention period on indexed runs.
type Pruner struct {
	storage   index.Storage
	config    *Config
	logger    *logging.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(storage index.Storage, cfg *Config, logger *logging.Logger) *Pruner {
	if cfg == nil {
		cfg = ConfigFrom(config.DefaultConfig().Index)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	pruner := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  logger.With("component", "index.retention"),
		now:     time.Now,
	}
	pruner.scheduler = NewScheduler(pruner)
	return pruner
}

// Scheduler returns the scheduler that runs this pruner.
func (p *Pruner) Scheduler() *Scheduler {
	return p.scheduler
}

// Cutoff returns the time before which runs are pruned, and false when
// retention is unlimited.
func (p *Pruner) Cutoff() (time.Time, bool) {
	if p.config.RetentionDays <= 0 {
		return time.Time{}, false
	}
	return p.now().AddDate(0, 0, -p.config.RetentionDays), true
}

// Prune deletes runs older than the retention period and returns how many
// were deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff, ok := p.Cutoff()
	if !ok {
		p.logger.Debug("retention unlimited, nothing to prune")
		return 0, nil
	}

	deleted, err := p.storage.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune by age failed: %w", err)
	}

	if deleted == 0 {
		p.logger.Debug("no runs pruned", "retention_days", p.config.RetentionDays)
	} else {
		p.logger.Info("index pruning completed",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}
	return deleted, nil
}

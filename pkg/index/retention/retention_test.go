package retention

import (
	"context"
	"testing"
	"time"

	"idlwrap/pkg/config"
	"idlwrap/pkg/index"
	"idlwrap/pkg/index/storage"
)

func storeRuns(t *testing.T, store index.Storage, now time.Time, ages ...int) {
	t.Helper()
	for i, days := range ages {
		run := &index.Run{
			ID:        string(rune('a' + i)),
			Source:    "gtsam.i",
			StartedAt: now.AddDate(0, 0, -days),
		}
		if err := store.StoreRun(context.Background(), run, nil); err != nil {
			t.Fatalf("StoreRun() failed: %v", err)
		}
	}
}

func TestPruner_Prune(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		retention   int
		ages        []int
		wantDeleted int64
		wantLeft    int
	}{
		{"prunes old runs", 30, []int{1, 29, 31, 90}, 2, 2},
		{"nothing old", 30, []int{1, 2}, 0, 2},
		{"unlimited retention", 0, []int{1, 400}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			storeRuns(t, store, now, tt.ages...)

			pruner := NewPruner(store, &Config{RetentionDays: tt.retention}, nil)
			pruner.now = func() time.Time { return now }

			deleted, err := pruner.Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() failed: %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}

			runs, _ := store.Runs(context.Background(), 0)
			if len(runs) != tt.wantLeft {
				t.Errorf("len(runs) = %d, want %d", len(runs), tt.wantLeft)
			}
		})
	}
}

func TestPruner_Cutoff(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{RetentionDays: 10}, nil)
	pruner.now = func() time.Time { return now }

	cutoff, ok := pruner.Cutoff()
	if !ok || !cutoff.Equal(now.AddDate(0, 0, -10)) {
		t.Errorf("Cutoff() = %v, %v; want %v, true", cutoff, ok, now.AddDate(0, 0, -10))
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.DefaultConfig().Index)
	if cfg.RetentionDays != config.DefaultIndexRetentionDays || cfg.PruneSchedule != config.DefaultIndexPruneSchedule {
		t.Errorf("ConfigFrom() = %+v", cfg)
	}
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{"valid daily schedule", "0 3 * * *", true, false},
		{"valid hourly schedule", "0 * * * *", true, false},
		{"empty schedule - no error, not running", "", false, false},
		{"invalid schedule", "invalid cron", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruner := NewPruner(storage.NewMemoryStorage(), &Config{
				RetentionDays: 30,
				PruneSchedule: tt.schedule,
			}, nil)
			scheduler := pruner.Scheduler()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := scheduler.NextRun()
				if next == nil {
					t.Fatal("NextRun() returned nil for running scheduler")
				}
				if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: "@every 1h"}, nil)
	scheduler := pruner.Scheduler()

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler should stop when the context is cancelled")
	}
}

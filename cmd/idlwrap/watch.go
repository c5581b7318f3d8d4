package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/config"
	"idlwrap/pkg/index"
	"idlwrap/pkg/index/retention"
	"idlwrap/pkg/index/storage"
	"idlwrap/pkg/telemetry/health"
	"idlwrap/pkg/telemetry/tracing"
	"idlwrap/pkg/watch"
)

var watchFlags struct {
	dir         string
	metricsAddr string
	strict      bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check interface files whenever they change",
	Long: `Check a directory of interface files, then re-check it every time an
interface file changes.

With --metrics-addr (or telemetry.metrics.listen_address) the Prometheus
metrics of the running checks are served on /metrics. With index.enabled every
check is recorded in the declaration index and old runs are pruned on
index.prune_schedule. Edits to the --config file are picked up by the next
check; an invalid edit is logged and the running configuration kept.

Examples:
  idlwrap watch --dir interface/
  idlwrap watch --dir interface/ --metrics-addr :9090`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.dir, "dir", "d", "", "directory of interface files")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve /metrics on this address")
	watchCmd.Flags().BoolVar(&watchFlags.strict, "strict", false, "treat unresolved unqualified names as errors")
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	if watchFlags.dir == "" {
		return cli.NewConfigError("dir", "--dir must be specified")
	}
	watchOverrides(e.cfg)

	ctx := commandContext(cmd)

	var store index.Storage
	if e.cfg.Index.Enabled {
		store, err = storage.New(e.cfg.Index, e.logger)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer store.Close()

		scheduler := retention.NewPruner(store, retention.ConfigFrom(e.cfg.Index), e.logger).Scheduler()
		if err := scheduler.Start(ctx); err != nil {
			e.logger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				e.logger.Debug("index retention scheduler started", "next_pruning", next)
			}
		}
	}

	state := &watchState{}
	loop := newCheckLoop(e, store, state)
	// Runs before the store closes.
	defer loop.close()

	addr := watchFlags.metricsAddr
	if addr == "" {
		addr = e.cfg.Telemetry.Metrics.ListenAddress
	}
	if addr != "" {
		stop := serveTelemetry(e, addr, newHealthChecker(store, state))
		defer stop()
	}

	if err := loop.run(ctx, nil); err != nil {
		return cli.NewCommandError("watch", err)
	}

	fw, err := watch.NewFileWatcher(watch.ConfigFrom(e.cfg, watchFlags.dir), e.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	if info, err := os.Stat(cfgFile); err == nil && !info.IsDir() {
		cw, err := watch.NewFileWatcher(&watch.Config{
			Path:             cfgFile,
			DebounceInterval: e.cfg.Watch.Debounce,
			Extensions:       []string{filepath.Ext(cfgFile)},
		}, e.logger)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer cw.Stop()

		go func() {
			err := cw.Watch(ctx, func([]string) error {
				if err := reloadWatchConfig(); err != nil {
					return err
				}
				e.logger.Info("configuration reloaded", "path", cfgFile)
				return loop.run(ctx, nil)
			})
			if err != nil {
				e.logger.Warn("configuration watcher stopped", "error", err)
			}
		}()
	}

	fmt.Fprintf(e.out, "Watching %s for changes. Press Ctrl+C to stop\n", watchFlags.dir)
	if err := fw.Watch(ctx, func(changed []string) error {
		return loop.run(ctx, changed)
	}); err != nil {
		return cli.NewCommandError("watch", err)
	}
	fmt.Fprintln(e.out, "✓ Watch stopped")
	return nil
}

// watchOverrides applies the global and watch flags to cfg.
func watchOverrides(cfg *config.Config) {
	applyFlags(cfg)
	if watchFlags.strict {
		cfg.Resolution.Strict = true
	}
}

// reloadWatchConfig re-reads --config. The next check picks the new
// configuration up; an invalid file leaves the current one in place.
func reloadWatchConfig() error {
	_, err := config.ReloadConfig(cfgFile, watchOverrides)
	return err
}

// checkLoop runs the checks of a watch session one at a time. The file and
// configuration watchers may both fire while a check is running.
type checkLoop struct {
	e     *env
	store index.Storage
	state *watchState

	mu     sync.Mutex
	closed bool
}

func newCheckLoop(e *env, store index.Storage, state *watchState) *checkLoop {
	return &checkLoop{e: e, store: store, state: state}
}

// run checks the watched directory with the current configuration. It does
// nothing once the loop is closed.
func (l *checkLoop) run(ctx context.Context, changed []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}

	if cfg := config.GetConfig(); cfg != nil {
		l.e.cfg = cfg
	}
	report, err := watchCheck(ctx, l.e, l.store, changed)
	l.state.update(report, err)
	return err
}

// close waits for a running check to finish.
func (l *checkLoop) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// watchCheck checks the whole watched directory. References can cross files,
// so a change to one file may break another.
func watchCheck(ctx context.Context, e *env, store index.Storage, changed []string) (*Report, error) {
	if len(changed) > 0 {
		e.logger.InfoContext(ctx, "re-checking after change", "changed", changed)
	}

	files, err := collectFiles("", watchFlags.dir, e.cfg.Parser.Extensions, e.cfg.Watch.HiddenSkipped())
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, tracing.SpanCheck)
	defer span.End()
	tracing.SetRunAttributes(span, watchFlags.dir, "", len(files))

	report, err := checkFiles(ctx, e, files, cli.NoProgress{})
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	report.Source = watchFlags.dir
	tracing.SetResultAttributes(span, report.total(), report.Errors)
	e.metrics.SetDeclarations(report.Declarations)

	if store != nil {
		if _, err := recordReport(ctx, e, store, report); err != nil {
			e.logger.ErrorContext(ctx, "failed to record run", "error", err)
		}
	}

	fmt.Fprintf(e.out, "--- %s ---\n", time.Now().Format(time.TimeOnly))
	report.writeText(e.out)
	return report, nil
}

// watchState is the outcome of the latest check, read by the readiness probe.
type watchState struct {
	mu     sync.RWMutex
	report *Report
	err    error
}

func (s *watchState) update(report *Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report, s.err = report, err
}

// healthy fails until the first check finished and while the latest check
// found errors.
func (s *watchState) healthy(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.err != nil:
		return s.err
	case s.report == nil:
		return errors.New("no check completed yet")
	case s.report.Failed():
		return fmt.Errorf("%d error(s) in %d file(s)", s.report.Errors, len(s.report.Files))
	}
	return nil
}

func newHealthChecker(store index.Storage, state *watchState) *health.Checker {
	checker := health.New(5 * time.Second)
	checker.RegisterCheck("interfaces", state.healthy)
	if store != nil {
		checker.RegisterCheck("index", func(ctx context.Context) error {
			_, err := store.Runs(ctx, 1)
			return err
		})
	}
	return checker
}

// serveTelemetry serves /metrics and the health endpoints on addr until the
// returned stop function is called.
func serveTelemetry(e *env, addr string, checker *health.Checker) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.metrics.Handler())
	health.Register(mux, checker, health.VersionInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		e.logger.Info("serving telemetry", "address", addr, "paths", []string{"/metrics", "/health", "/ready", "/version"})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			e.logger.Error("metrics server shutdown failed", "error", err)
		}
	}
}

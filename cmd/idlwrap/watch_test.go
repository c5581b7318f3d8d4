package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/config"
	"idlwrap/pkg/index"
	"idlwrap/pkg/index/storage"
	"idlwrap/pkg/telemetry/health"
)

func TestWatchCheck(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("testdata/geometry.i")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "geometry.i"), src, 0644); err != nil {
		t.Fatal(err)
	}

	cmd, out := newTestCommand(t)
	watchFlags.dir = dir
	e, err := newEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	store := storage.NewMemoryStorage()
	defer store.Close()

	ctx := context.Background()
	if _, err := watchCheck(ctx, e, store, nil); err != nil {
		t.Fatalf("watchCheck() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 file(s), 0 error(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// Break a reference and re-check.
	broken := filepath.Join(dir, "slam.i")
	if err := os.WriteFile(broken, []byte("namespace gtsam {\nclass Marginals {\n  gtsam::Rot3 at() const;\n};\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	report, err := watchCheck(ctx, e, store, []string{broken})
	if err != nil {
		t.Fatalf("watchCheck() error = %v", err)
	}
	if !strings.Contains(out.String(), "2 file(s), 1 error(s)") {
		t.Errorf("unexpected output after change:\n%s", out)
	}
	if !report.Failed() {
		t.Error("expected the report to fail after the change")
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected a run per check, got %d", len(runs))
	}

	records, err := store.Query(ctx, &index.Query{Name: "Marginals", LatestRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected Marginals in latest run, got %d records", len(records))
	}
}

func TestRunWatch_RequiresDir(t *testing.T) {
	cmd, _ := newTestCommand(t)
	watchFlags.dir = ""
	watchFlags.metricsAddr = ""

	err := runWatch(cmd, nil)
	if code := cli.ExitCode(err); code != cli.ExitUsage {
		t.Errorf("ExitCode() = %d, want %d (%v)", code, cli.ExitUsage, err)
	}
}

func TestRunWatch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.i"), []byte("namespace a { class A {}; }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd, out := newTestCommand(t)
	watchFlags.dir = dir
	watchFlags.metricsAddr = ""
	watchFlags.strict = false

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.SetContext(ctx)

	// Cancel once the initial check has had time to finish.
	time.AfterFunc(500*time.Millisecond, cancel)
	if err := runWatch(cmd, nil); err != nil {
		t.Fatalf("runWatch() error = %v", err)
	}
	if !strings.Contains(out.String(), "Watch stopped") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestHealthChecker(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	state := &watchState{}
	checker := newHealthChecker(store, state)
	ctx := context.Background()

	if got := checker.CheckReadiness(ctx); got.Status != health.StatusDegraded {
		t.Errorf("before the first check: status = %q, want degraded", got.Status)
	}

	state.update(&Report{Files: []*FileResult{{File: "a.i", Valid: true}}}, nil)
	status := checker.CheckReadiness(ctx)
	if status.Status != health.StatusReady {
		t.Errorf("after a clean check: status = %q, want ready (%+v)", status.Status, status.Checks)
	}
	if status.Checks["index"].Status != health.StatusOK {
		t.Errorf("index check = %+v", status.Checks["index"])
	}

	state.update(&Report{Files: []*FileResult{{File: "a.i"}}, Errors: 2}, nil)
	status = checker.CheckReadiness(ctx)
	if got := status.Checks["interfaces"]; got.Status != health.StatusUnhealthy || got.Message != "2 error(s) in 1 file(s)" {
		t.Errorf("after a failed check: interfaces = %+v", got)
	}
}

func TestServeTelemetry(t *testing.T) {
	cmd, _ := newTestCommand(t)
	e, err := newEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	state := &watchState{}
	state.update(&Report{}, nil)
	stop := serveTelemetry(e, addr, newHealthChecker(nil, state))
	defer stop()

	client := &http.Client{Timeout: time.Second}
	get := func(path string) (int, error) {
		var lastErr error
		for range 50 {
			resp, err := client.Get("http://" + addr + path)
			if err == nil {
				resp.Body.Close()
				return resp.StatusCode, nil
			}
			lastErr = err
			time.Sleep(20 * time.Millisecond)
		}
		return 0, lastErr
	}

	for _, path := range []string{"/metrics", "/health", "/ready", "/version"} {
		code, err := get(path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, code)
		}
	}
}

func TestReloadWatchConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.i"), []byte("namespace a { Unknown make(); }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd, out := newTestCommand(t)
	useConfig(t, "resolution:\n  strict: false\n")
	watchFlags.dir = dir
	watchFlags.strict = false
	t.Cleanup(func() { config.SetConfig(nil) })

	e, err := newEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}
	loop := newCheckLoop(e, nil, &watchState{})
	ctx := context.Background()

	if err := loop.run(ctx, nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 file(s), 0 error(s)") {
		t.Errorf("unexpected output before reload:\n%s", out)
	}

	if err := os.WriteFile(cfgFile, []byte("resolution:\n  strict: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := reloadWatchConfig(); err != nil {
		t.Fatalf("reloadWatchConfig() error = %v", err)
	}
	out.Reset()
	if err := loop.run(ctx, nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 file(s), 1 error(s)") {
		t.Errorf("strict mode from the reloaded config not applied:\n%s", out)
	}

	// An invalid file keeps the running configuration.
	if err := os.WriteFile(cfgFile, []byte("parser:\n  workers: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := reloadWatchConfig(); err == nil {
		t.Fatal("expected reload of an invalid config to fail")
	}
	if !config.GetConfig().Resolution.Strict {
		t.Error("failed reload replaced the configuration")
	}
}

// blockingStore holds StoreRun until release is closed.
type blockingStore struct {
	index.Storage
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (s *blockingStore) StoreRun(ctx context.Context, run *index.Run, records []*index.Record) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.Storage.StoreRun(ctx, run, records)
}

func TestCheckLoop_CloseWaitsForRunningCheck(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.i"), []byte("namespace a { class A {}; }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd, _ := newTestCommand(t)
	watchFlags.dir = dir
	e, err := newEnv(cmd)
	if err != nil {
		t.Fatal(err)
	}

	store := &blockingStore{
		Storage: storage.NewMemoryStorage(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	loop := newCheckLoop(e, store, &watchState{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- loop.run(ctx, nil) }()
	<-store.started

	closed := make(chan struct{})
	go func() {
		loop.close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("close() returned while a check was still recording")
	case <-time.After(100 * time.Millisecond):
	}

	close(store.release)
	<-closed
	if err := <-done; err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Checks after close do not touch the store.
	if err := loop.run(ctx, nil); err != nil {
		t.Fatalf("run() after close error = %v", err)
	}
	runs, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 recorded run, got %d", len(runs))
	}
}

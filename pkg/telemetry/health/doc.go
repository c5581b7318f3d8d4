// Package health provides the health endpoints served next to /metrics while
// idlwrap watches a directory.
//
// Endpoints:
//
//   - /health: liveness, 200 while the process runs
//   - /ready: readiness, runs every registered check and answers 503 when one fails
//   - /version: build information
//
// Components register checks by name:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("index", func(ctx context.Context) error {
//		_, err := store.Runs(ctx, 1)
//		return err
//	})
//	health.Register(mux, checker, health.VersionInfo{Version: "0.1.0"})
//
// Checks run concurrently, each bounded by the checker timeout.
package health

// Package logging provides structured logging for idlwrap.
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output formats
//   - Context-aware logging with run ids, source files and namespaces
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging))
//
//	ctx = logging.WithSourceFile(ctx, "gtsam.i")
//	logger.InfoContext(ctx, "parsed interface file", "declarations", n)
//
// Libraries that accept a *slog.Logger get one from Logger.Slog.
package logging

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"idlwrap/pkg/cli"
	"idlwrap/pkg/config"
	"idlwrap/pkg/telemetry/logging"
	"idlwrap/pkg/telemetry/metrics"
	"idlwrap/pkg/telemetry/tracing"
)

// env holds what every command needs: configuration with flag overrides
// applied, a logger on stderr, a metrics collector and a tracer.
type env struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	out     io.Writer
	errOut  io.Writer
}

// newEnv loads the configuration named by --config (defaults when the file
// does not exist) and applies the global flag overrides. cmd may be nil.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}

	applyFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	config.SetConfig(cfg)

	e := &env{cfg: cfg, out: os.Stdout, errOut: os.Stderr}
	if cmd != nil {
		e.out = cmd.OutOrStdout()
		e.errOut = cmd.ErrOrStderr()
	}

	logCfg := logging.ConfigFrom(cfg.Telemetry.Logging)
	logCfg.Writer = e.errOut
	e.logger, err = logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	e.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	e.tracer, err = tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	return e, nil
}

// applyFlags applies the global flag overrides to cfg.
func applyFlags(cfg *config.Config) {
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
}

// close flushes buffered spans.
func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.tracer.Shutdown(ctx); err != nil {
		e.logger.Warn("failed to flush traces", "error", err)
	}
}

// formatter validates a --format value and returns its formatter.
func (e *env) formatter(format string) (cli.OutputFormat, cli.Formatter, error) {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return "", nil, err
	}
	return f, cli.NewFormatter(f), nil
}

// commandContext returns the context of cmd, which carries signal
// cancellation when run through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

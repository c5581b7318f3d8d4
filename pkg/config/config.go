package config

import "time"

// Config is the root configuration structure for idlwrap.
// It contains the sections for parsing interface files, resolving references,
// the declaration index, watch mode, remote sources and telemetry.
type Config struct {
	// Parser controls how interface files are read and parsed.
	Parser ParserConfig `yaml:"parser"`

	// Resolution controls how type references are checked against the
	// namespace tree.
	Resolution ResolutionConfig `yaml:"resolution"`

	// Index controls the declaration index written by `idlwrap index`.
	Index IndexConfig `yaml:"index"`

	// Watch controls `idlwrap watch`.
	Watch WatchConfig `yaml:"watch"`

	// Source configures remote interface sources.
	Source SourceConfig `yaml:"source"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ParserConfig contains configuration for the interface file parser.
type ParserConfig struct {
	// MaxFileSize is the largest interface file that will be parsed, in bytes.
	// Default: 10MB
	MaxFileSize int64 `yaml:"max_file_size"`

	// Extensions lists the file extensions treated as interface files when a
	// directory is scanned.
	// Default: [".i", ".h"]
	Extensions []string `yaml:"extensions"`

	// Workers is the number of files checked concurrently.
	// Default: 4
	Workers int `yaml:"workers"`
}

// ResolutionConfig contains configuration for reference checking.
type ResolutionConfig struct {
	// ExternalTypes lists type names that are provided by the target language
	// or a third-party library and are never looked up in the tree.
	// Entries ending in "::*" match a whole namespace (e.g. "std::*").
	// Default: builtin C++ types, "std::*" and common Eigen aliases
	ExternalTypes []string `yaml:"external_types"`

	// Strict reports unresolved unqualified references as errors instead of
	// assuming they are external.
	// Default: false
	Strict bool `yaml:"strict"`

	// EnclosingScopeLookup resolves unqualified references from the innermost
	// enclosing namespace outwards. When false they resolve against the root only.
	// Default: true
	EnclosingScopeLookup *bool `yaml:"enclosing_scope_lookup"`
}

// ScopeLookup returns the effective enclosing-scope lookup setting.
func (c ResolutionConfig) ScopeLookup() bool {
	return c.EnclosingScopeLookup == nil || *c.EnclosingScopeLookup
}

// IndexConfig contains configuration for the declaration index.
type IndexConfig struct {
	// Enabled records declarations of every checked file.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the database/sql driver.
	// Options: "sqlite3" (mattn/go-sqlite3, cgo), "sqlite" (modernc.org/sqlite, pure Go), "memory"
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/declarations.db"
	Path string `yaml:"path"`

	// BusyTimeout is the SQLite busy timeout.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how long recorded runs are kept (0 = forever).
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for pruning old runs in watch mode.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig contains configuration for watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before re-checking.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`

	// SkipHidden ignores dot-directories such as .git.
	// Default: true
	SkipHidden *bool `yaml:"skip_hidden"`
}

// HiddenSkipped returns the effective skip_hidden setting.
func (c WatchConfig) HiddenSkipped() bool {
	return c.SkipHidden == nil || *c.SkipHidden
}

// SourceConfig contains configuration for remote interface sources.
type SourceConfig struct {
	Git GitConfig `yaml:"git"`

	// SecretsDir holds one file per secret for ${secret:name} references in
	// the git credentials. Secrets are also read from IDLWRAP_SECRET_<NAME>.
	SecretsDir string `yaml:"secrets_dir"`
}

// GitConfig configures checking interface files from a git repository.
type GitConfig struct {
	// Repository is the clone URL. Empty disables the git source.
	Repository string `yaml:"repository"`

	// Branch to check out.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path inside the repository that holds the interface files.
	// Default: "." (repository root)
	Path string `yaml:"path"`

	// Depth is the clone depth (0 = full history).
	// Default: 1
	Depth int `yaml:"depth"`

	// LocalPath is where the repository is cloned.
	// Default: "data/source"
	LocalPath string `yaml:"local_path"`

	// Token is a personal access token for HTTPS auth.
	Token string `yaml:"token"`

	// SSHKeyPath is a private key for SSH auth.
	SSHKeyPath string `yaml:"ssh_key_path"`

	// Timeout bounds the clone operation.
	// Default: 2m
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "idlwrap"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "frontend"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves /metrics while watching. Empty disables the endpoint.
	ListenAddress string `yaml:"listen_address"`

	// Textfile is a path the metrics are written to after a batch run,
	// in the Prometheus text format. Empty disables it.
	Textfile string `yaml:"textfile"`

	// ResolutionDurationBuckets defines histogram buckets for reference resolution (seconds).
	// Default: exponential from 1µs
	ResolutionDurationBuckets []float64 `yaml:"resolution_duration_buckets"`
}

// IsEnabled returns the effective enabled setting.
func (c MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of runs to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service.name resource attribute.
	// Default: "idlwrap"
	ServiceName string `yaml:"service_name"`
}

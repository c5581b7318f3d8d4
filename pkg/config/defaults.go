package config

import "time"

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultMaxFileSize = int64(10 * 1024 * 1024) // 10MB
	DefaultWorkers     = 4

	// Index defaults
	DefaultIndexEnabled       = false
	DefaultIndexDriver        = "sqlite3"
	DefaultIndexPath          = "data/declarations.db"
	DefaultIndexBusyTimeout   = 5 * time.Second
	DefaultIndexRetentionDays = 30
	DefaultIndexPruneSchedule = "0 3 * * *"

	// Watch defaults
	DefaultWatchDebounce = 100 * time.Millisecond

	// Git source defaults
	DefaultGitBranch    = "main"
	DefaultGitPath      = "."
	DefaultGitDepth     = 1
	DefaultGitLocalPath = "data/source"
	DefaultGitTimeout   = 2 * time.Minute

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "idlwrap"
	DefaultMetricsSubsystem = "frontend"
	DefaultTracingSampler   = "always"
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultTracingService   = "idlwrap"
)

// DefaultExtensions are the interface file extensions scanned in a directory.
var DefaultExtensions = []string{".i", ".h"}

// DefaultExternalTypes are types the code generator maps natively.
var DefaultExternalTypes = []string{
	"void", "bool", "char", "unsigned char", "int", "unsigned int", "long", "unsigned long",
	"size_t", "float", "double", "string",
	"Vector", "Matrix", "Point2", "Point3",
	"std::*", "Eigen::*", "boost::*",
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = DefaultMaxFileSize
	}
	if len(cfg.Parser.Extensions) == 0 {
		cfg.Parser.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Parser.Workers == 0 {
		cfg.Parser.Workers = DefaultWorkers
	}

	// Resolution defaults
	if cfg.Resolution.ExternalTypes == nil {
		cfg.Resolution.ExternalTypes = append([]string(nil), DefaultExternalTypes...)
	}
	if cfg.Resolution.EnclosingScopeLookup == nil {
		enabled := true
		cfg.Resolution.EnclosingScopeLookup = &enabled
	}

	// Index defaults
	if cfg.Index.Driver == "" {
		cfg.Index.Driver = DefaultIndexDriver
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = DefaultIndexPath
	}
	if cfg.Index.BusyTimeout == 0 {
		cfg.Index.BusyTimeout = DefaultIndexBusyTimeout
	}
	if cfg.Index.RetentionDays == 0 {
		cfg.Index.RetentionDays = DefaultIndexRetentionDays
	}
	if cfg.Index.PruneSchedule == "" {
		cfg.Index.PruneSchedule = DefaultIndexPruneSchedule
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Watch.SkipHidden == nil {
		skip := true
		cfg.Watch.SkipHidden = &skip
	}

	// Git source defaults
	git := &cfg.Source.Git
	if git.Branch == "" {
		git.Branch = DefaultGitBranch
	}
	if git.Path == "" {
		git.Path = DefaultGitPath
	}
	if git.Depth == 0 {
		git.Depth = DefaultGitDepth
	}
	if git.LocalPath == "" {
		git.LocalPath = DefaultGitLocalPath
	}
	if git.Timeout == 0 {
		git.Timeout = DefaultGitTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := true
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
}

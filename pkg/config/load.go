package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention IDLWRAP_SECTION_FIELD (e.g., IDLWRAP_INDEX_DRIVER).
// Environment variables always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path with environment overrides. A missing file or an
// empty path yields the defaults, still subject to environment overrides.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format IDLWRAP_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Parser overrides
	if val := os.Getenv("IDLWRAP_PARSER_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Parser.MaxFileSize = i
		}
	}
	if val := os.Getenv("IDLWRAP_PARSER_EXTENSIONS"); val != "" {
		cfg.Parser.Extensions = splitList(val)
	}
	if val := os.Getenv("IDLWRAP_PARSER_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Parser.Workers = i
		}
	}

	// Resolution overrides
	if val := os.Getenv("IDLWRAP_RESOLUTION_EXTERNAL_TYPES"); val != "" {
		cfg.Resolution.ExternalTypes = splitList(val)
	}
	if val := os.Getenv("IDLWRAP_RESOLUTION_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Resolution.Strict = b
		}
	}
	if val := os.Getenv("IDLWRAP_RESOLUTION_ENCLOSING_SCOPE_LOOKUP"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Resolution.EnclosingScopeLookup = &b
		}
	}

	// Index overrides
	if val := os.Getenv("IDLWRAP_INDEX_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Index.Enabled = b
		}
	}
	if val := os.Getenv("IDLWRAP_INDEX_DRIVER"); val != "" {
		cfg.Index.Driver = val
	}
	if val := os.Getenv("IDLWRAP_INDEX_PATH"); val != "" {
		cfg.Index.Path = val
	}
	if val := os.Getenv("IDLWRAP_INDEX_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Index.BusyTimeout = d
		}
	}
	if val := os.Getenv("IDLWRAP_INDEX_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Index.RetentionDays = i
		}
	}
	if val := os.Getenv("IDLWRAP_INDEX_PRUNE_SCHEDULE"); val != "" {
		cfg.Index.PruneSchedule = val
	}

	// Watch overrides
	if val := os.Getenv("IDLWRAP_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("IDLWRAP_WATCH_SKIP_HIDDEN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.SkipHidden = &b
		}
	}

	// Git source overrides
	if val := os.Getenv("IDLWRAP_SOURCE_GIT_REPOSITORY"); val != "" {
		cfg.Source.Git.Repository = val
	}
	if val := os.Getenv("IDLWRAP_SOURCE_GIT_BRANCH"); val != "" {
		cfg.Source.Git.Branch = val
	}
	if val := os.Getenv("IDLWRAP_SOURCE_GIT_PATH"); val != "" {
		cfg.Source.Git.Path = val
	}
	if val := os.Getenv("IDLWRAP_SOURCE_GIT_TOKEN"); val != "" {
		cfg.Source.Git.Token = val
	}
	if val := os.Getenv("IDLWRAP_SOURCE_GIT_SSH_KEY_PATH"); val != "" {
		cfg.Source.Git.SSHKeyPath = val
	}

	// Telemetry overrides
	if val := os.Getenv("IDLWRAP_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("IDLWRAP_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("IDLWRAP_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("IDLWRAP_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("IDLWRAP_TELEMETRY_METRICS_TEXTFILE"); val != "" {
		cfg.Telemetry.Metrics.Textfile = val
	}
	if val := os.Getenv("IDLWRAP_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("IDLWRAP_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

// splitList splits a comma-separated environment value, dropping empty items.
func splitList(val string) []string {
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

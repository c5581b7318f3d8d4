// Package config provides configuration management for idlwrap.
//
// Configuration is loaded from YAML with environment variable overrides,
// defaults are applied for every zero-valued field, and the result is validated
// as a whole so that all problems are reported together.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("idlwrap.yaml")             // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("idlwrap.yaml")
//	cfg, err := config.LoadOrDefault(path)                    // missing file = defaults
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention IDLWRAP_SECTION_FIELD:
//
//   - IDLWRAP_RESOLUTION_STRICT overrides resolution.strict
//   - IDLWRAP_INDEX_DRIVER overrides index.driver
//   - IDLWRAP_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// List values (extensions, external types) are comma separated.
//
// # Example Configuration
//
//	parser:
//	  extensions: [".i"]
//	  workers: 8
//
//	resolution:
//	  strict: true
//	  external_types: ["double", "size_t", "std::*"]
//
//	index:
//	  enabled: true
//	  driver: "sqlite"
//	  path: "build/declarations.db"
//
//	telemetry:
//	  logging:
//	    level: "debug"
//	    format: "console"
//
// # Singleton Pattern
//
// The CLI stores the loaded configuration with SetConfig and watch mode replaces
// it with ReloadConfig when the file changes. Library packages take explicit
// values instead.
package config

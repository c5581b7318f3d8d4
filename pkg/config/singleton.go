package config

import (
	"fmt"
	"sync"
)

var (
	// current is the configuration of the running command.
	current *Config

	currentMu sync.RWMutex
)

// GetConfig returns the configuration stored by SetConfig or the last
// successful ReloadConfig, or nil when none was stored.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig stores cfg as the configuration of the running command.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// ReloadConfig re-reads path with environment overrides, applies overrides
// (command-line flags) when non-nil and validates the result. The stored
// configuration is replaced only on success; on error it stays unchanged.
func ReloadConfig(path string, overrides func(*Config)) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}
	if overrides != nil {
		overrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to reload configuration: %w", err)
		}
	}

	SetConfig(cfg)
	return cfg, nil
}

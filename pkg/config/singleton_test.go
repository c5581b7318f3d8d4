package config

import (
	"testing"
)

func resetCurrent() {
	SetConfig(nil)
}

func TestSetAndGetConfig(t *testing.T) {
	resetCurrent()
	t.Cleanup(resetCurrent)

	if GetConfig() != nil {
		t.Fatal("expected nil config before SetConfig")
	}

	cfg := DefaultConfig()
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the stored config")
	}
}

func TestReloadConfig(t *testing.T) {
	resetCurrent()
	t.Cleanup(resetCurrent)

	SetConfig(DefaultConfig())

	cfg, err := ReloadConfig(writeConfig(t, "parser:\n  workers: 7\n"), nil)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if cfg != GetConfig() || GetConfig().Parser.Workers != 7 {
		t.Errorf("expected workers 7 after reload, got %d", GetConfig().Parser.Workers)
	}

	// A broken file keeps the previous configuration.
	if _, err := ReloadConfig(writeConfig(t, "index:\n  driver: mysql\n"), nil); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig().Parser.Workers != 7 {
		t.Error("failed reload replaced the configuration")
	}
}

func TestReloadConfig_Overrides(t *testing.T) {
	resetCurrent()
	t.Cleanup(resetCurrent)

	path := writeConfig(t, "resolution:\n  strict: false\ntelemetry:\n  logging:\n    level: info\n")

	cfg, err := ReloadConfig(path, func(c *Config) {
		c.Resolution.Strict = true
		c.Telemetry.Logging.Level = "error"
	})
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if !cfg.Resolution.Strict || cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("overrides not applied: strict=%v level=%q", cfg.Resolution.Strict, cfg.Telemetry.Logging.Level)
	}

	// Overrides are validated too.
	_, err = ReloadConfig(path, func(c *Config) { c.Telemetry.Logging.Format = "xml" })
	if err == nil {
		t.Fatal("expected invalid override to fail the reload")
	}
	if GetConfig() != cfg {
		t.Error("failed reload replaced the configuration")
	}
}

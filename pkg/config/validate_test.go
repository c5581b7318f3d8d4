package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_DefaultConfig(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("expected default config to pass validation, got error: %v", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		errorField string
	}{
		{"zero workers", func(c *Config) { c.Parser.Workers = 0 }, "parser.workers"},
		{"negative size", func(c *Config) { c.Parser.MaxFileSize = -1 }, "parser.max_file_size"},
		{"extension without dot", func(c *Config) { c.Parser.Extensions = []string{"i"} }, "parser.extensions[0]"},
		{"unknown driver", func(c *Config) { c.Index.Driver = "mysql" }, "index.driver"},
		{"missing path", func(c *Config) { c.Index.Path = "" }, "index.path"},
		{"negative retention", func(c *Config) { c.Index.RetentionDays = -1 }, "index.retention_days"},
		{"bad schedule", func(c *Config) { c.Index.PruneSchedule = "* *" }, "index.prune_schedule"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"bad level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"bad sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{
			"ratio out of range",
			func(c *Config) {
				c.Telemetry.Tracing.Sampler = "ratio"
				c.Telemetry.Tracing.SampleRatio = 1.5
			},
			"telemetry.tracing.sample_ratio",
		},
		{
			"token and ssh key",
			func(c *Config) {
				c.Source.Git.Repository = "https://example.com/repo.git"
				c.Source.Git.Token = "t"
				c.Source.Git.SSHKeyPath = "/id_ed25519"
			},
			"source.git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.errorField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.errorField, verr.Errors)
			}
		})
	}
}

func TestValidate_MemoryDriverNeedsNoPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.Driver = "memory"
	cfg.Index.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("expected memory driver without path to be valid, got %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parser.Workers = 0
	cfg.Index.Driver = "mysql"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	if !strings.Contains(err.Error(), "validation failed with 2 errors") {
		t.Errorf("error message should mention multiple errors: %s", err)
	}
}

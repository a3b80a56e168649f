package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "queue.timeout_ms", Value: -1, Message: "must be positive"}
	want := "queue.timeout_ms: must be positive (got: -1)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if got := (ValidationErrors{}).Error(); got != "" {
		t.Errorf("empty Error() = %q", got)
	}

	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	got := errs.Error()
	if !strings.HasPrefix(got, "2 validation errors:\n") {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(got, "  1. a: bad (got: 1)") || !strings.Contains(got, "  2. b: worse (got: 2)") {
		t.Errorf("Error() missing entries: %q", got)
	}
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero timeout", func(c *Config) { c.Queue.TimeoutMs = 0 }, "queue.timeout_ms"},
		{"huge timeout", func(c *Config) { c.Queue.TimeoutMs = maxQueueTimeoutMs + 1 }, "queue.timeout_ms"},
		{"unknown agent", func(c *Config) { c.Agent.Name = "gemini" }, "agent.name"},
		{"unknown provider", func(c *Config) { c.Worktrees.Provider = "svn" }, "worktrees.provider"},
		{"null in folder", func(c *Config) { c.Worktrees.Folder = "a\x00b" }, "worktrees.folder"},
		{"bad pattern", func(c *Config) { c.Workflows.Pattern = "[" }, "workflows.pattern"},
		{"null in workflow dir", func(c *Config) { c.Workflows.Dirs = []string{"ok", "x\x00"} }, "workflows.dirs[1]"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"long base dir", func(c *Config) { c.Storage.BaseDir = strings.Repeat("a", 5000) }, "storage.base_dir"},
		{"null in registry path", func(c *Config) { c.Registry.Path = "\x00" }, "registry.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestConfig_Validate_AcceptsKnownValues(t *testing.T) {
	for _, name := range []string{"", "claude", "codex"} {
		cfg := Default()
		cfg.Agent.Name = name
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("agent %q: unexpected errors %v", name, errs)
		}
	}
	for _, provider := range ValidWorktreeProviders() {
		cfg := Default()
		cfg.Worktrees.Provider = provider
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("provider %q: unexpected errors %v", provider, errs)
		}
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Queue.TimeoutMs = -5
	cfg.Logging.Level = "loud"
	if errs := cfg.Validate(); len(errs) != 2 {
		t.Errorf("expected 2 errors, got %v", errs)
	}
}

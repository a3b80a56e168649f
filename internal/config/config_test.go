package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Storage.UseGlobal {
		t.Error("Storage.UseGlobal should default to true")
	}
	if cfg.Queue.TimeoutMs != 30000 {
		t.Errorf("Queue.TimeoutMs = %d, want 30000", cfg.Queue.TimeoutMs)
	}
	if cfg.Worktrees.Folder != ".worktrees" || cfg.Worktrees.Provider != "git" {
		t.Errorf("Worktrees = %+v", cfg.Worktrees)
	}
	if cfg.Workflows.Pattern != "*.{yaml,yml}" {
		t.Errorf("Workflows.Pattern = %q", cfg.Workflows.Pattern)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Enabled {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Agent.Name != "" || cfg.Prompts.Folder != "" {
		t.Errorf("Agent/Prompts should be empty by default: %+v %+v", cfg.Agent, cfg.Prompts)
	}
}

func TestQueueConfig_Timeout(t *testing.T) {
	c := QueueConfig{TimeoutMs: 1500}
	if got := c.Timeout(); got != 1500*time.Millisecond {
		t.Errorf("Timeout() = %v, want 1.5s", got)
	}
}

func TestStorageConfig_ResolveBaseDir(t *testing.T) {
	t.Setenv("LANES_HOME", "/opt/lanes")
	t.Setenv("HOME", "/home/test")

	tests := []struct {
		name string
		cfg  StorageConfig
		want string
	}{
		{"disabled", StorageConfig{UseGlobal: false, BaseDir: "/x"}, ""},
		{"default", StorageConfig{UseGlobal: true}, filepath.Join("/opt/lanes", "state")},
		{"override", StorageConfig{UseGlobal: true, BaseDir: "/data/lanes"}, "/data/lanes"},
		{"home", StorageConfig{UseGlobal: true, BaseDir: "~/state"}, filepath.Join("/home/test", "state")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveBaseDir(); got != tt.want {
				t.Errorf("ResolveBaseDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryConfig_ResolvePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	if got := (&RegistryConfig{}).ResolvePath(); got != "/custom/config/lanes/projects.json" {
		t.Errorf("default ResolvePath() = %q", got)
	}
	if got := (&RegistryConfig{Path: "/srv/projects.json"}).ResolvePath(); got != "/srv/projects.json" {
		t.Errorf("ResolvePath() = %q", got)
	}
}

func TestWorkflowsConfig_ResolveDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("HOME", "/home/test")

	c := WorkflowsConfig{Dirs: []string{".lanes/workflows", "", "/abs/flows", "~/flows"}}
	got := c.ResolveDirs("/repo")
	want := []string{
		filepath.Join("/repo", ".lanes", "workflows"),
		"/abs/flows",
		filepath.Join("/home/test", "flows"),
		filepath.Join("/custom/config", "lanes", "workflows"),
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ResolveDirs() = %v, want %v", got, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/lanes" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/lanes")
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got, want := ConfigDir(), filepath.Join(home, ".config", "lanes"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigFile(); got != "/custom/config/lanes/config.yaml" {
		t.Errorf("ConfigFile() = %q", got)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Queue.TimeoutMs != 30000 || !cfg.Storage.UseGlobal {
		t.Errorf("Get() did not return defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("agent.name", "codex")
	viper.Set("prompts.folder", "prompts")
	viper.Set("queue.timeout_ms", 5000)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Agent.Name != "codex" || cfg.Prompts.Folder != "prompts" || cfg.Queue.TimeoutMs != 5000 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidFallsBackInGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("queue.timeout_ms", -1)

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a negative timeout")
	}
	if got := Get().Queue.TimeoutMs; got != 30000 {
		t.Errorf("Get() should fall back to defaults, got timeout %d", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/lanes/internal/location"
)

// Config represents the complete lanes configuration
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Worktrees WorktreesConfig `mapstructure:"worktrees"`
	Workflows WorkflowsConfig `mapstructure:"workflows"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// StorageConfig controls where session state is kept
type StorageConfig struct {
	// UseGlobal stores session state in the global base directory instead of
	// <repo>/.lanes/session_management (default: true)
	UseGlobal bool `mapstructure:"use_global"`
	// BaseDir overrides the global base directory. Empty selects
	// $LANES_HOME/state, $XDG_STATE_HOME/lanes or ~/.local/state/lanes.
	BaseDir string `mapstructure:"base_dir"`
}

// PromptsConfig controls where session prompts are written
type PromptsConfig struct {
	// Folder, relative to the repository root, receives <session>.txt prompt
	// files. Empty keeps prompts in the session directory. Absolute paths and
	// paths containing ".." are ignored.
	Folder string `mapstructure:"folder"`
}

// AgentConfig selects the coding agent
type AgentConfig struct {
	// Name is "claude" or "codex". Empty uses the legacy Claude file format.
	Name string `mapstructure:"name"`
}

// QueueConfig controls serialized session creation
type QueueConfig struct {
	// TimeoutMs bounds how long a caller waits for one session creation (default: 30000)
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// RegistryConfig controls the shared project registry
type RegistryConfig struct {
	// Path is the registry file. Empty selects <config dir>/projects.json.
	Path string `mapstructure:"path"`
}

// WorktreesConfig controls how session worktrees are created
type WorktreesConfig struct {
	// Folder, relative to the repository root, holds one worktree per session (default: ".worktrees")
	Folder string `mapstructure:"folder"`
	// Provider is "git" for git worktrees or "dir" for plain directories (default: "git")
	Provider string `mapstructure:"provider"`
}

// WorkflowsConfig controls workflow template discovery
type WorkflowsConfig struct {
	// Dirs are searched in order. Relative entries resolve against the
	// repository root; "~" expands to the home directory.
	Dirs []string `mapstructure:"dirs"`
	// Pattern is a glob matched against template file names (default: "*.{yaml,yml}")
	Pattern string `mapstructure:"pattern"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled writes a JSON log to <config dir>/lanes.log (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is one of debug, info, warn, error (default: "info")
	Level string `mapstructure:"level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			UseGlobal: true,
		},
		Queue: QueueConfig{
			TimeoutMs: 30000,
		},
		Worktrees: WorktreesConfig{
			Folder:   ".worktrees",
			Provider: "git",
		},
		Workflows: WorkflowsConfig{
			Dirs:    []string{filepath.Join(".lanes", "workflows")},
			Pattern: "*.{yaml,yml}",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// Timeout returns the session creation timeout as a time.Duration
func (c *QueueConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ResolveBaseDir returns the global storage directory, or "" when global
// storage is disabled or no home directory is available.
func (c *StorageConfig) ResolveBaseDir() string {
	if !c.UseGlobal {
		return ""
	}
	if c.BaseDir != "" {
		return expandHome(c.BaseDir)
	}
	return location.DefaultBaseDir()
}

// ResolvePath returns the registry file path.
func (c *RegistryConfig) ResolvePath() string {
	if c.Path != "" {
		return expandHome(c.Path)
	}
	return filepath.Join(ConfigDir(), "projects.json")
}

// ResolveDirs returns the template directories for repoRoot followed by
// the user's <config dir>/workflows.
func (c *WorkflowsConfig) ResolveDirs(repoRoot string) []string {
	dirs := make([]string, 0, len(c.Dirs)+1)
	for _, dir := range c.Dirs {
		if dir == "" {
			continue
		}
		dir = expandHome(dir)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(repoRoot, dir)
		}
		dirs = append(dirs, dir)
	}
	return append(dirs, filepath.Join(ConfigDir(), "workflows"))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.use_global", defaults.Storage.UseGlobal)
	viper.SetDefault("storage.base_dir", defaults.Storage.BaseDir)

	viper.SetDefault("prompts.folder", defaults.Prompts.Folder)

	viper.SetDefault("agent.name", defaults.Agent.Name)

	viper.SetDefault("queue.timeout_ms", defaults.Queue.TimeoutMs)

	viper.SetDefault("registry.path", defaults.Registry.Path)

	viper.SetDefault("worktrees.folder", defaults.Worktrees.Folder)
	viper.SetDefault("worktrees.provider", defaults.Worktrees.Provider)

	viper.SetDefault("workflows.dirs", defaults.Workflows.Dirs)
	viper.SetDefault("workflows.pattern", defaults.Workflows.Pattern)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lanes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lanes"
	}
	return filepath.Join(home, ".config", "lanes")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

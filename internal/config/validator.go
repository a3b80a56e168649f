package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "queue.timeout_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return logging.ValidLevels()
}

// ValidWorktreeProviders returns the list of valid worktree providers
func ValidWorktreeProviders() []string {
	return []string{"git", "dir"}
}

// maxQueueTimeoutMs caps queue.timeout_ms at ten minutes.
const maxQueueTimeoutMs = 10 * 60 * 1000

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateAgent()...)
	errors = append(errors, c.validateQueue()...)
	errors = append(errors, c.validateWorktrees()...)
	errors = append(errors, c.validateWorkflows()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateStorage() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePath("storage.base_dir", c.Storage.BaseDir)...)
	errors = append(errors, validatePath("registry.path", c.Registry.Path)...)
	return errors
}

func (c *Config) validateAgent() []ValidationError {
	if c.Agent.Name == "" {
		return nil
	}
	if _, err := agent.Lookup(c.Agent.Name); err != nil {
		return []ValidationError{{
			Field:   "agent.name",
			Value:   c.Agent.Name,
			Message: fmt.Sprintf("must be empty or one of: %s", strings.Join(agent.Names(), ", ")),
		}}
	}
	return nil
}

func (c *Config) validateQueue() []ValidationError {
	var errors []ValidationError

	if c.Queue.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "queue.timeout_ms",
			Value:   c.Queue.TimeoutMs,
			Message: "must be positive",
		})
	}
	if c.Queue.TimeoutMs > maxQueueTimeoutMs {
		errors = append(errors, ValidationError{
			Field:   "queue.timeout_ms",
			Value:   c.Queue.TimeoutMs,
			Message: fmt.Sprintf("exceeds maximum of %d", maxQueueTimeoutMs),
		})
	}

	return errors
}

func (c *Config) validateWorktrees() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidWorktreeProviders(), c.Worktrees.Provider) {
		errors = append(errors, ValidationError{
			Field:   "worktrees.provider",
			Value:   c.Worktrees.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidWorktreeProviders(), ", ")),
		})
	}
	errors = append(errors, validatePath("worktrees.folder", c.Worktrees.Folder)...)

	return errors
}

func (c *Config) validateWorkflows() []ValidationError {
	var errors []ValidationError

	if c.Workflows.Pattern != "" {
		if _, err := glob.Compile(c.Workflows.Pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   "workflows.pattern",
				Value:   c.Workflows.Pattern,
				Message: "invalid glob pattern: " + err.Error(),
			})
		}
	}
	for i, dir := range c.Workflows.Dirs {
		errors = append(errors, validatePath(fmt.Sprintf("workflows.dirs[%d]", i), dir)...)
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		return []ValidationError{{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		}}
	}
	return nil
}

// validatePath rejects null bytes and overlong paths.
func validatePath(field, path string) []ValidationError {
	var errors []ValidationError

	if strings.ContainsRune(path, '\x00') {
		errors = append(errors, ValidationError{
			Field:   field,
			Value:   path,
			Message: "path contains invalid null character",
		})
	}

	// Most filesystems limit paths to around 4096 bytes
	const maxPathLength = 4096
	if len(path) > maxPathLength {
		errors = append(errors, ValidationError{
			Field:   field,
			Value:   path,
			Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
		})
	}

	return errors
}

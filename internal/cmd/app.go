package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/config"
	"github.com/Iron-Ham/lanes/internal/lanes"
	"github.com/Iron-Ham/lanes/internal/location"
	"github.com/Iron-Ham/lanes/internal/logging"
	"github.com/Iron-Ham/lanes/internal/registry"
	"github.com/Iron-Ham/lanes/internal/worktree"
)

// app is the per-invocation wiring shared by every command.
type app struct {
	cfg      *config.Config
	repoRoot string
	logger   *logging.Logger
	resolver *location.Resolver
	registry *registry.Writer
	service  *lanes.Service
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	repoRoot, err := repoRootFlag(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(config.ConfigDir(), cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
	}

	a, err := agent.Lookup(cfg.Agent.Name)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	local, _ := cmd.Flags().GetBool("local")
	promptsFolder := cfg.Prompts.Folder
	resolver := location.NewResolver(location.Options{
		GlobalBase: cfg.Storage.ResolveBaseDir(),
		NonGlobal:  local,
		CustomFolder: func(kind location.Kind) string {
			if kind == location.KindPrompt {
				return promptsFolder
			}
			return ""
		},
		Agent:  a,
		Logger: logger,
	})

	var provider worktree.Provider
	switch cfg.Worktrees.Provider {
	case "dir":
		provider = worktree.NewDirProvider(cfg.Worktrees.Folder)
	default:
		provider = worktree.NewGitProvider(cfg.Worktrees.Folder, logger)
	}

	reg := registry.NewWriter(cfg.Registry.ResolvePath(), logger)

	return &app{
		cfg:      cfg,
		repoRoot: repoRoot,
		logger:   logger,
		resolver: resolver,
		registry: reg,
		service: lanes.New(lanes.Options{
			RepoRoot:      repoRoot,
			Resolver:      resolver,
			Worktrees:     provider,
			Registry:      reg,
			CreateTimeout: cfg.Queue.Timeout(),
			Logger:        logger,
		}),
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Close()
}

func repoRootFlag(cmd *cobra.Command) (string, error) {
	root, _ := cmd.Flags().GetString("repo")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository root: %w", err)
	}
	return abs, nil
}

// withApp adapts a command body that needs the shared wiring.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

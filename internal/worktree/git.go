package worktree

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/location"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// -----------------------------------------------------------------------------
// Command Executor
// -----------------------------------------------------------------------------

// CommandExecutor abstracts command execution so tests can stub git.
type CommandExecutor interface {
	// Run executes a command and returns combined output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// CLICommandExecutor executes commands using os/exec.
type CLICommandExecutor struct{}

// Run implements CommandExecutor.
func (CLICommandExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// -----------------------------------------------------------------------------
// GitProvider
// -----------------------------------------------------------------------------

// GitProvider creates git worktrees under Folder, each on a branch named
// after its session.
type GitProvider struct {
	Folder   string
	executor CommandExecutor
	logger   *logging.Logger
}

// NewGitProvider creates a GitProvider that shells out to git.
func NewGitProvider(folder string, logger *logging.Logger) *GitProvider {
	return NewGitProviderWithExecutor(folder, CLICommandExecutor{}, logger)
}

// NewGitProviderWithExecutor creates a GitProvider with a custom executor.
func NewGitProviderWithExecutor(folder string, executor CommandExecutor, logger *logging.Logger) *GitProvider {
	return &GitProvider{
		Folder:   folder,
		executor: executor,
		logger:   logger.WithComponent("worktree"),
	}
}

// Path implements Provider.
func (g *GitProvider) Path(repoRoot, name string) string {
	return folderPath(repoRoot, g.Folder, name)
}

// Create implements Provider. An existing branch named name is checked
// out; otherwise a new branch is created from HEAD.
func (g *GitProvider) Create(ctx context.Context, repoRoot, name string) (string, error) {
	if err := location.ValidateSessionName(name); err != nil {
		return "", err
	}
	path := g.Path(repoRoot, name)
	if _, err := os.Stat(path); err == nil {
		g.logger.Debug("worktree already exists", "session", name, "path", path)
		return path, nil
	}

	args := []string{"worktree", "add", "-b", name, path}
	if g.branchExists(ctx, repoRoot, name) {
		args = []string{"worktree", "add", path, name}
	}
	output, err := g.executor.Run(ctx, repoRoot, "git", args...)
	if err != nil {
		return "", errors.NewSessionError("failed to create worktree", errors.Wrapf(err, "git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(output)))).
			WithSessionName(name)
	}
	g.logger.Info("created worktree", "session", name, "path", path)
	return path, nil
}

// List returns the paths of every worktree in repoRoot.
func (g *GitProvider) List(ctx context.Context, repoRoot string) ([]string, error) {
	output, err := g.executor.Run(ctx, repoRoot, "git", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, errors.Wrapf(err, "git worktree list: %s", strings.TrimSpace(string(output)))
	}

	var worktrees []string
	for _, line := range strings.Split(string(output), "\n") {
		if path, ok := strings.CutPrefix(line, "worktree "); ok {
			worktrees = append(worktrees, path)
		}
	}
	return worktrees, nil
}

func (g *GitProvider) branchExists(ctx context.Context, repoRoot, name string) bool {
	_, err := g.executor.Run(ctx, repoRoot, "git", "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

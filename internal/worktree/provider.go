// Package worktree creates the isolated checkout each session works in.
//
// The session layer only needs a directory per session; how that directory
// is produced is behind [Provider]. [DirProvider] creates plain directories
// and [GitProvider] creates git worktrees with a branch named after the
// session.
package worktree

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/location"
)

// DefaultFolder is the worktree folder inside the repository root.
const DefaultFolder = ".worktrees"

// Provider creates and locates session worktrees.
type Provider interface {
	// Create makes the worktree for name and returns its path. Creating a
	// worktree that already exists is not an error.
	Create(ctx context.Context, repoRoot, name string) (string, error)

	// Path returns where the worktree for name lives, whether or not it exists.
	Path(repoRoot, name string) string
}

// folderPath returns <repoRoot>/<folder>/<name>, falling back to
// DefaultFolder when folder is empty or unsafe.
func folderPath(repoRoot, folder, name string) string {
	clean, err := location.SanitizeFolder(folder)
	if err != nil {
		clean = DefaultFolder
	}
	return filepath.Join(repoRoot, clean, name)
}

// DirProvider creates worktrees as plain directories under Folder.
type DirProvider struct {
	Folder string
}

// NewDirProvider creates a DirProvider rooted at folder.
func NewDirProvider(folder string) *DirProvider {
	return &DirProvider{Folder: folder}
}

// Path implements Provider.
func (p *DirProvider) Path(repoRoot, name string) string {
	return folderPath(repoRoot, p.Folder, name)
}

// Create implements Provider.
func (p *DirProvider) Create(ctx context.Context, repoRoot, name string) (string, error) {
	if err := location.ValidateSessionName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := p.Path(repoRoot, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", errors.NewStorageError("create worktree", path, err)
	}
	return path, nil
}

// Package location resolves where per-session files live on disk.
//
// Session documents and status files are stored either in global storage,
// a per-installation directory keyed by a stable repository identifier, or
// in a fixed legacy directory inside the repository. Prompt files may
// additionally be redirected to a user-configured folder inside the
// repository. All user-influenced path components are validated; invalid
// input is rejected (session names) or ignored with a warning (folders),
// never allowed to escape the intended directory.
package location

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// Kind selects which per-session artifact to resolve.
type Kind string

const (
	KindSession Kind = "session"
	KindStatus  Kind = "status"
	KindPrompt  Kind = "prompt"
)

// Kinds returns every artifact kind.
func Kinds() []Kind {
	return []Kind{KindSession, KindStatus, KindPrompt}
}

// PromptFileName is the prompt file name inside a session directory.
const PromptFileName = "prompt.txt"

// LegacyDir returns the in-repository session directory root,
// <repoRoot>/.lanes/session_management.
func LegacyDir(repoRoot string) string {
	return filepath.Join(repoRoot, ".lanes", "session_management")
}

// Location is a resolved artifact path and the directory that must exist
// before the artifact can be written.
type Location struct {
	Path string
	Dir  string
}

// Options configures a Resolver. Every field is optional.
type Options struct {
	// GlobalBase is the installation-wide storage directory. Global storage
	// is only used when this is set.
	GlobalBase string

	// NonGlobal forces the legacy in-repository layout even when GlobalBase is set.
	NonGlobal bool

	// CustomFolder returns the user-configured folder for an artifact kind,
	// relative to the repository root. Only KindPrompt consults it.
	CustomFolder func(kind Kind) string

	// Identifier maps a repository root to its global storage key.
	// Defaults to RepoIdentifier.
	Identifier func(repoRoot string) string

	// Agent supplies session and status file names. Nil selects the legacy names.
	Agent agent.Agent

	Logger *logging.Logger
}

// Resolver computes artifact locations. It holds no mutable state and is
// safe for concurrent use.
type Resolver struct {
	opts   Options
	logger *logging.Logger
}

// NewResolver creates a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	if opts.Identifier == nil {
		opts.Identifier = RepoIdentifier
	}
	return &Resolver{
		opts:   opts,
		logger: opts.Logger.WithComponent("location"),
	}
}

// GlobalEnabled reports whether artifacts resolve into global storage.
func (r *Resolver) GlobalEnabled() bool {
	return r.opts.GlobalBase != "" && !r.opts.NonGlobal
}

// Agent returns the configured agent, or nil for legacy naming.
func (r *Resolver) Agent() agent.Agent {
	return r.opts.Agent
}

// RepoDir returns the directory holding every session directory for
// repoRoot under the active layout.
func (r *Resolver) RepoDir(repoRoot string) string {
	if r.GlobalEnabled() {
		return filepath.Join(r.opts.GlobalBase, r.opts.Identifier(repoRoot))
	}
	return LegacyDir(repoRoot)
}

// Resolve returns the location of kind for the named session in repoRoot.
//
// Precedence, first match wins:
//  1. KindPrompt with a valid custom folder: <repoRoot>/<folder>/<sessionName>.txt
//  2. Global storage enabled: <globalBase>/<repoIdentifier>/<sessionName>/<file>
//  3. Otherwise: <repoRoot>/.lanes/session_management/<sessionName>/<file>
//
// An invalid session name returns an error wrapping errors.ErrInvalidSessionName.
func (r *Resolver) Resolve(repoRoot, sessionName string, kind Kind) (Location, error) {
	if err := ValidateSessionName(sessionName); err != nil {
		r.logger.Warn("rejected session name", "session", sessionName, "kind", string(kind))
		return Location{}, err
	}

	file, err := r.fileName(kind)
	if err != nil {
		return Location{}, err
	}

	if kind == KindPrompt {
		if loc, ok := r.customPromptLocation(repoRoot, sessionName); ok {
			return loc, nil
		}
	}

	dir := filepath.Join(r.RepoDir(repoRoot), sessionName)
	return Location{Path: filepath.Join(dir, file), Dir: dir}, nil
}

func (r *Resolver) customPromptLocation(repoRoot, sessionName string) (Location, bool) {
	if r.opts.CustomFolder == nil {
		return Location{}, false
	}
	raw := r.opts.CustomFolder(KindPrompt)
	if raw == "" {
		return Location{}, false
	}
	folder, err := SanitizeFolder(raw)
	if err != nil {
		r.logger.Warn("ignoring custom prompts folder", "folder", raw, "error", err.Error())
		return Location{}, false
	}
	dir := filepath.Join(repoRoot, folder)
	return Location{Path: filepath.Join(dir, sessionName+".txt"), Dir: dir}, true
}

func (r *Resolver) fileName(kind Kind) (string, error) {
	switch kind {
	case KindSession:
		return agent.SessionFileName(r.opts.Agent), nil
	case KindStatus:
		return agent.StatusFileName(r.opts.Agent), nil
	case KindPrompt:
		return PromptFileName, nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unknown artifact kind %q", kind)).WithField("kind")
	}
}

// ValidateSessionName rejects names that are not a single directory-name
// component: empty names, "." and names containing "..", "/" or "\".
func ValidateSessionName(name string) error {
	if name == "" || name == "." ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return errors.NewValidationError("session name must be a single directory name").
			WithField("sessionName").
			WithValue(name).
			WithCause(errors.ErrInvalidSessionName)
	}
	return nil
}

// SessionNameFromWorktree returns the session name for a worktree directory,
// which is the directory's base name.
func SessionNameFromWorktree(worktreePath string) string {
	return filepath.Base(filepath.Clean(worktreePath))
}

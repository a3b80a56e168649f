// Package status reads the liveness signal that an agent process writes
// into its session directory.
//
// The status file is owned by the agent; lanes only reads it. Any problem
// with the file (missing, unreadable, malformed, or reporting a state the
// agent does not declare) reads as "no status", which callers display as
// idle.
package status

import (
	"os"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/location"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// Reader reads status files for one repository.
type Reader struct {
	repoRoot string
	resolver *location.Resolver
	logger   *logging.Logger
}

// NewReader creates a Reader for repoRoot.
func NewReader(repoRoot string, resolver *location.Resolver, logger *logging.Logger) *Reader {
	return &Reader{
		repoRoot: repoRoot,
		resolver: resolver,
		logger:   logger.WithComponent("status"),
	}
}

// Path returns the status file path for name.
func (r *Reader) Path(name string) (string, error) {
	loc, err := r.resolver.Resolve(r.repoRoot, name, location.KindStatus)
	if err != nil {
		return "", err
	}
	return loc.Path, nil
}

// Status returns the validated status for name.
func (r *Reader) Status(name string) (*agent.Status, bool) {
	path, err := r.Path(name)
	if err != nil {
		return nil, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Debug("failed to read status file", "session", name, "path", path, "error", err.Error())
		}
		return nil, false
	}
	status, ok := Parse(r.resolver.Agent(), content)
	if !ok {
		r.logger.Debug("ignoring invalid status file", "session", name, "path", path)
	}
	return status, ok
}

// Display returns the state to show for name. A missing or invalid status
// displays as idle.
func (r *Reader) Display(name string) agent.State {
	if status, ok := r.Status(name); ok {
		return status.State
	}
	return agent.StateIdle
}

// Parse validates content as a status document. A configured agent parses
// the content and its result is checked against the agent's own declared
// states. A nil agent uses the legacy JSON format and the built-in states.
func Parse(a agent.Agent, content []byte) (*agent.Status, bool) {
	if a == nil {
		return agent.ParseLegacyStatus(content)
	}
	status, ok := a.ParseStatus(content)
	if !ok || status == nil {
		return nil, false
	}
	if !agent.ContainsState(a.ValidStatusStates(), status.State) {
		return nil, false
	}
	return status, true
}

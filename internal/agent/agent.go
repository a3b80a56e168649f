// Package agent defines the per-agent capability used to name and parse the
// files a coding agent writes into its session directory.
//
// Exactly two kinds of configuration exist. A configured [Agent] (selected
// once at startup with [Lookup]) owns file naming and validation entirely.
// When no agent is configured, callers pass a nil Agent and the package-level
// legacy functions apply, matching the single fixed file format written by
// older Claude-only installs.
package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Iron-Ham/lanes/internal/errors"
)

// State is an agent liveness state as reported in a status file.
type State string

const (
	StateIdle           State = "idle"
	StateWorking        State = "working"
	StateWaitingForUser State = "waiting_for_user"
	StateActive         State = "active"
	StateError          State = "error"
)

// BuiltinStates returns the closed set of states understood by the legacy parser.
func BuiltinStates() []State {
	return []State{StateIdle, StateWorking, StateWaitingForUser, StateActive, StateError}
}

// Status is a validated status document.
type Status struct {
	State     State
	Timestamp string
	Message   string
}

// SessionData is the agent-owned part of a session document.
type SessionData struct {
	SessionID      string
	Timestamp      string
	Workflow       string
	PermissionMode string
	AgentName      string
}

// Agent is implemented by every configured agent.
type Agent interface {
	// Name is the identifier stored as agentName in session documents.
	Name() string

	// SessionFileName is the base name of the session document.
	SessionFileName() string

	// StatusFileName is the base name of the status file the agent writes.
	StatusFileName() string

	// ParseSessionData extracts and validates session data. ok is false when
	// the content is not usable or the session id is not valid for this agent.
	ParseSessionData(content []byte) (data *SessionData, ok bool)

	// ParseStatus extracts a status. Callers re-check the result against
	// ValidStatusStates.
	ParseStatus(content []byte) (status *Status, ok bool)

	// ValidStatusStates lists the states this agent may report.
	ValidStatusStates() []State
}

// DefaultAgentName is reported when a session document has no agentName.
const DefaultAgentName = "claude"

// Legacy file names used when no agent is configured.
const (
	LegacySessionFileName = ".claude-session"
	LegacyStatusFileName  = ".claude-status"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidSessionID reports whether id matches the conservative legacy
// character class.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// SessionFileName returns a's session file name, or the legacy name when a is nil.
func SessionFileName(a Agent) string {
	if a == nil {
		return LegacySessionFileName
	}
	return a.SessionFileName()
}

// StatusFileName returns a's status file name, or the legacy name when a is nil.
func StatusFileName(a Agent) string {
	if a == nil {
		return LegacyStatusFileName
	}
	return a.StatusFileName()
}

// ContainsState reports whether s is in states.
func ContainsState(states []State, s State) bool {
	for _, candidate := range states {
		if candidate == s {
			return true
		}
	}
	return false
}

// Lookup returns the agent registered under name. An empty name selects
// legacy parsing and returns (nil, nil).
func Lookup(name string) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "claude":
		return Claude{}, nil
	case "codex":
		return Codex{}, nil
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown agent %q", name)).
			WithField("agent.name").
			WithValue(name)
	}
}

// Names lists the agents Lookup accepts.
func Names() []string {
	return []string{"claude", "codex"}
}

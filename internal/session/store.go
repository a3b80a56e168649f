package session

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/document"
	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/location"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// Document keys.
const (
	KeySessionID      = "sessionId"
	KeyTimestamp      = "timestamp"
	KeyWorkflow       = "workflow"
	KeyPermissionMode = "permissionMode"
	KeyTerminal       = "terminal"
	KeyChimeEnabled   = "isChimeEnabled"
	KeyTaskListID     = "taskListId"
	KeyAgentName      = "agentName"
)

// TerminalMode is the terminal a session's agent runs in.
type TerminalMode string

const (
	TerminalCode TerminalMode = "code"
	TerminalTmux TerminalMode = "tmux"
)

// Valid reports whether m is a known terminal mode.
func (m TerminalMode) Valid() bool {
	return m == TerminalCode || m == TerminalTmux
}

// taskListSuffixLen is the length of the random part of a task list id.
const taskListSuffixLen = 6

// Store reads and writes session documents for one repository.
type Store struct {
	repoRoot string
	resolver *location.Resolver
	docs     *document.Store
	logger   *logging.Logger
}

// NewStore creates a Store for repoRoot. docs and logger may be nil.
func NewStore(repoRoot string, resolver *location.Resolver, docs *document.Store, logger *logging.Logger) *Store {
	if docs == nil {
		docs = document.NewStore(logger)
	}
	return &Store{
		repoRoot: repoRoot,
		resolver: resolver,
		docs:     docs,
		logger:   logger.WithComponent("session"),
	}
}

// RepoRoot returns the repository root the store is bound to.
func (s *Store) RepoRoot() string {
	return s.repoRoot
}

// Path returns the session document path for name.
func (s *Store) Path(name string) (string, error) {
	loc, err := s.resolver.Resolve(s.repoRoot, name, location.KindSession)
	if err != nil {
		return "", err
	}
	return loc.Path, nil
}

// read returns the session document, or nil when it is absent or unusable.
func (s *Store) read(name string) document.Document {
	path, err := s.Path(name)
	if err != nil {
		return nil
	}
	doc, _ := s.docs.Read(path)
	return doc
}

func (s *Store) merge(name string, patch document.Document) error {
	return s.write(name, func(path string) error {
		return s.docs.Merge(path, patch)
	})
}

func (s *Store) update(name string, fn func(document.Document) error) error {
	return s.write(name, func(path string) error {
		return s.docs.Update(path, fn)
	})
}

// write resolves the session document path and runs op against it, logging
// any failure.
func (s *Store) write(name string, op func(path string) error) error {
	path, err := s.Path(name)
	if err != nil {
		s.logger.Warn("cannot write session document", "session", name, "error", err.Error())
		return err
	}
	if err := op(path); err != nil {
		s.logger.Warn("failed to write session document", "session", name, "path", path, "error", err.Error())
		return errors.NewSessionError("write session document", err).WithSessionName(name)
	}
	return nil
}

func (s *Store) stringField(name, key string) (string, bool) {
	doc := s.read(name)
	if doc == nil {
		return "", false
	}
	return doc.GetString(key)
}

// -----------------------------------------------------------------------------
// Session ID
// -----------------------------------------------------------------------------

// SessionID returns the agent session data for name. Validation of the id is
// delegated to the configured agent; without one, the id must match
// agent.ValidSessionID.
func (s *Store) SessionID(name string) (*agent.SessionData, bool) {
	path, err := s.Path(name)
	if err != nil {
		return nil, false
	}
	content, ok := readFile(path)
	if !ok {
		return nil, false
	}
	if a := s.resolver.Agent(); a != nil {
		return a.ParseSessionData(content)
	}
	return agent.ParseLegacySessionData(content)
}

// SetSessionID records the agent's session id for name.
func (s *Store) SetSessionID(name, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError("session id is empty").WithField(KeySessionID)
	}
	return s.merge(name, document.Document{
		KeySessionID: id,
		KeyTimestamp: now(),
	})
}

// ClearSessionID removes the session id and keeps every other field. A
// timestamp is written when the document has none. A session without a
// document is left alone.
func (s *Store) ClearSessionID(name string) error {
	path, err := s.Path(name)
	if err != nil {
		s.logger.Warn("cannot write session document", "session", name, "error", err.Error())
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.logger.Debug("no session document to clear", "session", name)
		return nil
	}
	return s.update(name, func(doc document.Document) error {
		delete(doc, KeySessionID)
		if _, ok := doc.GetString(KeyTimestamp); !ok {
			doc[KeyTimestamp] = now()
		}
		return nil
	})
}

// -----------------------------------------------------------------------------
// Simple string fields
// -----------------------------------------------------------------------------

// Workflow returns the active workflow template name.
func (s *Store) Workflow(name string) (string, bool) {
	return s.stringField(name, KeyWorkflow)
}

// SetWorkflow records the active workflow. An empty workflow removes the field.
func (s *Store) SetWorkflow(name, workflow string) error {
	return s.merge(name, document.Document{KeyWorkflow: optional(workflow)})
}

// PermissionMode returns the session's permission mode label.
func (s *Store) PermissionMode(name string) (string, bool) {
	return s.stringField(name, KeyPermissionMode)
}

// SetPermissionMode records the permission mode. An empty mode removes the field.
func (s *Store) SetPermissionMode(name, mode string) error {
	return s.merge(name, document.Document{KeyPermissionMode: optional(mode)})
}

// AgentName returns the agent recorded for the session, defaulting to
// agent.DefaultAgentName.
func (s *Store) AgentName(name string) string {
	if v, ok := s.stringField(name, KeyAgentName); ok && v != "" {
		return v
	}
	return agent.DefaultAgentName
}

// TerminalMode returns the terminal mode. Values other than TerminalCode and
// TerminalTmux read as absent.
func (s *Store) TerminalMode(name string) (TerminalMode, bool) {
	v, ok := s.stringField(name, KeyTerminal)
	if !ok || !TerminalMode(v).Valid() {
		return "", false
	}
	return TerminalMode(v), true
}

// SetTerminalMode records the terminal mode.
func (s *Store) SetTerminalMode(name string, mode TerminalMode) error {
	if !mode.Valid() {
		return errors.NewValidationError("unknown terminal mode").
			WithField(KeyTerminal).
			WithValue(string(mode))
	}
	return s.merge(name, document.Document{KeyTerminal: string(mode)})
}

// ChimeEnabled reports whether the waiting-for-user chime is enabled. It
// defaults to false.
func (s *Store) ChimeEnabled(name string) bool {
	doc := s.read(name)
	if doc == nil {
		return false
	}
	v, _ := doc.GetBool(KeyChimeEnabled)
	return v
}

// SetChimeEnabled records the chime preference.
func (s *Store) SetChimeEnabled(name string, enabled bool) error {
	return s.merge(name, document.Document{KeyChimeEnabled: enabled})
}

// -----------------------------------------------------------------------------
// Task list ID
// -----------------------------------------------------------------------------

// TaskListID returns the stored task list id.
func (s *Store) TaskListID(name string) (string, bool) {
	v, ok := s.stringField(name, KeyTaskListID)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// GetOrCreateTaskListID returns the stored task list id, generating and
// persisting "<name>-<6 alphanumeric characters>" when none exists. The
// check and the write happen under one document update, so callers sharing
// this Store never generate two ids for the same session.
func (s *Store) GetOrCreateTaskListID(name string) (string, error) {
	var id string
	err := s.update(name, func(doc document.Document) error {
		if existing, ok := doc.GetString(KeyTaskListID); ok && existing != "" {
			id = existing
			return nil
		}
		suffix, err := randomSuffix(taskListSuffixLen)
		if err != nil {
			return err
		}
		id = name + "-" + suffix
		doc[KeyTaskListID] = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// randomSuffix returns n characters drawn from the URL-safe base64 encoding
// of random bytes with '-', '_' and padding removed.
func randomSuffix(n int) (string, error) {
	var b strings.Builder
	for b.Len() < n {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "generate task list id")
		}
		for _, r := range base64.URLEncoding.EncodeToString(buf) {
			if r == '-' || r == '_' || r == '=' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()[:n], nil
}

// -----------------------------------------------------------------------------
// Initialization
// -----------------------------------------------------------------------------

// Init is the initial state written when a session is created.
type Init struct {
	Workflow       string
	PermissionMode string
	Terminal       TerminalMode
}

// Initialize merges the creation-time fields into the session document.
// Fields already present and not named by init are kept.
func (s *Store) Initialize(name string, init Init) error {
	agentName := agent.DefaultAgentName
	if a := s.resolver.Agent(); a != nil {
		agentName = a.Name()
	}
	patch := document.Document{
		KeyAgentName: agentName,
		KeyTimestamp: now(),
	}
	if init.Workflow != "" {
		patch[KeyWorkflow] = init.Workflow
	}
	if init.PermissionMode != "" {
		patch[KeyPermissionMode] = init.PermissionMode
	}
	if init.Terminal.Valid() {
		patch[KeyTerminal] = string(init.Terminal)
	}
	return s.merge(name, patch)
}

// optional maps an empty string to nil so that merge deletes the key.
func optional(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

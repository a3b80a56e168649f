// Package lanes ties the session state packages together for one
// repository: it creates sessions through the task serializer and builds
// the per-session views a presenter displays.
package lanes

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/document"
	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/location"
	"github.com/Iron-Ham/lanes/internal/logging"
	"github.com/Iron-Ham/lanes/internal/registry"
	"github.com/Iron-Ham/lanes/internal/session"
	"github.com/Iron-Ham/lanes/internal/status"
	"github.com/Iron-Ham/lanes/internal/taskqueue"
	"github.com/Iron-Ham/lanes/internal/workflow"
	"github.com/Iron-Ham/lanes/internal/worktree"
)

// Options configures a Service. RepoRoot and Resolver are required.
type Options struct {
	RepoRoot string
	Resolver *location.Resolver

	// Worktrees defaults to a DirProvider under worktree.DefaultFolder.
	Worktrees worktree.Provider

	// Registry is optional; project registration fails without it.
	Registry *registry.Writer

	// Queue defaults to a new Serializer. Share one Serializer between
	// Services that must not create sessions concurrently.
	Queue *taskqueue.Serializer

	// CreateTimeout bounds each session creation. Zero uses the queue default.
	CreateTimeout time.Duration

	Logger *logging.Logger
}

// Service is the entry point for session operations on one repository.
type Service struct {
	repoRoot      string
	sessions      *session.Store
	status        *status.Reader
	tracker       *status.Tracker
	worktrees     worktree.Provider
	registry      *registry.Writer
	queue         *taskqueue.Serializer
	createTimeout time.Duration
	logger        *logging.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger.With("repo", opts.RepoRoot)
	if opts.Worktrees == nil {
		opts.Worktrees = worktree.NewDirProvider(worktree.DefaultFolder)
	}
	if opts.Queue == nil {
		opts.Queue = taskqueue.New(taskqueue.WithLogger(logger))
	}
	return &Service{
		repoRoot:      opts.RepoRoot,
		sessions:      session.NewStore(opts.RepoRoot, opts.Resolver, document.NewStore(logger), logger),
		status:        status.NewReader(opts.RepoRoot, opts.Resolver, logger),
		tracker:       status.NewTracker(),
		worktrees:     opts.Worktrees,
		registry:      opts.Registry,
		queue:         opts.Queue,
		createTimeout: opts.CreateTimeout,
		logger:        logger.WithComponent("lanes"),
	}
}

// RepoRoot returns the repository root.
func (s *Service) RepoRoot() string {
	return s.repoRoot
}

// Sessions returns the session state store.
func (s *Service) Sessions() *session.Store {
	return s.sessions
}

// Status returns the status reader.
func (s *Service) Status() *status.Reader {
	return s.status
}

// WorktreePath returns where the worktree for name lives.
func (s *Service) WorktreePath(name string) string {
	return s.worktrees.Path(s.repoRoot, name)
}

// -----------------------------------------------------------------------------
// Session creation
// -----------------------------------------------------------------------------

// CreateRequest describes a session to create.
type CreateRequest struct {
	Name           string
	Prompt         string
	Workflow       string
	PermissionMode string
	Terminal       session.TerminalMode
}

// Created reports the artifacts of a new session. PromptPath and
// TaskListID are empty when writing them failed.
type Created struct {
	Name         string
	WorktreePath string
	PromptPath   string
	TaskListID   string
}

// CreateSession creates the worktree and initial state for req.Name. Calls
// run one at a time, so two requests for the same name cannot both see the
// worktree as missing. Only the worktree step can fail the call; failures
// persisting session state are logged and leave the corresponding Created
// field empty.
func (s *Service) CreateSession(ctx context.Context, req CreateRequest) (*Created, error) {
	if err := location.ValidateSessionName(req.Name); err != nil {
		return nil, err
	}
	if req.Terminal != "" && !req.Terminal.Valid() {
		return nil, errors.NewValidationError("unknown terminal mode").
			WithField("terminal").
			WithValue(string(req.Terminal))
	}

	return taskqueue.Do(ctx, s.queue, func(ctx context.Context) (*Created, error) {
		return s.create(ctx, req)
	}, s.createTimeout)
}

func (s *Service) create(ctx context.Context, req CreateRequest) (*Created, error) {
	logger := s.logger.WithSession(req.Name)

	path := s.worktrees.Path(s.repoRoot, req.Name)
	if _, err := os.Stat(path); err == nil {
		return nil, errors.NewSessionError("session already exists", errors.ErrAlreadyExists).
			WithSessionName(req.Name)
	}

	path, err := s.worktrees.Create(ctx, s.repoRoot, req.Name)
	if err != nil {
		logger.Error("failed to create worktree", "error", err.Error())
		return nil, err
	}
	created := &Created{Name: req.Name, WorktreePath: path}

	init := session.Init{
		Workflow:       req.Workflow,
		PermissionMode: req.PermissionMode,
		Terminal:       req.Terminal,
	}
	if err := s.sessions.Initialize(req.Name, init); err != nil {
		logger.Warn("session created without initial state", "error", err.Error())
	}

	if req.Prompt != "" {
		if promptPath, err := s.sessions.WritePrompt(req.Name, req.Prompt); err == nil {
			created.PromptPath = promptPath
		}
	}

	if id, err := s.sessions.GetOrCreateTaskListID(req.Name); err == nil {
		created.TaskListID = id
	}

	logger.Info("session created", "worktree", path)
	return created, nil
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

// SessionView is everything a presenter shows for one session.
type SessionView struct {
	Name         string
	WorktreePath string
	State        agent.State
	Message      string
	Workflow     *workflow.Snapshot
	HasSessionID bool
	ChimeEnabled bool

	// Chime is true when the session just started waiting for the user and
	// the chime is enabled.
	Chime bool
}

// View builds the view for name and records its state for transition
// tracking.
func (s *Service) View(name string) SessionView {
	view := SessionView{
		Name:         name,
		WorktreePath: s.worktrees.Path(s.repoRoot, name),
		State:        agent.StateIdle,
	}
	if st, ok := s.status.Status(name); ok {
		view.State = st.State
		view.Message = st.Message
	}
	if snap, ok := workflow.ReadSnapshot(view.WorktreePath); ok {
		view.Workflow = snap
	}
	_, view.HasSessionID = s.sessions.SessionID(name)
	view.ChimeEnabled = s.sessions.ChimeEnabled(name)

	entered := s.tracker.Observe(name, view.State)
	view.Chime = entered && view.ChimeEnabled
	return view
}

// Refresh returns views for names, or for every stored session when names
// is empty. Sessions that disappeared since the last full refresh are
// dropped from transition tracking.
func (s *Service) Refresh(names []string) []SessionView {
	full := len(names) == 0
	if full {
		infos, err := s.sessions.List()
		if err != nil {
			s.logger.Warn("failed to list sessions", "error", err.Error())
		}
		for _, info := range infos {
			names = append(names, info.Name)
		}
	}

	views := make([]SessionView, 0, len(names))
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
		views = append(views, s.View(name))
	}

	if full {
		s.forgetMissing(present)
	}
	return views
}

func (s *Service) forgetMissing(present map[string]bool) {
	for _, name := range s.tracker.Names() {
		if !present[name] {
			s.tracker.Forget(name)
		}
	}
}

// -----------------------------------------------------------------------------
// Project registry
// -----------------------------------------------------------------------------

// RegisterProject records the repository in the project registry. An
// empty name uses the repository directory name.
func (s *Service) RegisterProject(name string, tags []string, group string) bool {
	if s.registry == nil {
		s.logger.Warn("no project registry configured")
		return false
	}
	if name == "" {
		name = filepath.Base(s.repoRoot)
	}
	return s.registry.Upsert(registry.Record{
		Name:     name,
		RootPath: s.repoRoot,
		Enabled:  true,
		Tags:     tags,
		Group:    group,
	})
}

// UnregisterProject removes the repository from the project registry.
func (s *Service) UnregisterProject() bool {
	if s.registry == nil {
		s.logger.Warn("no project registry configured")
		return false
	}
	return s.registry.Remove(s.repoRoot)
}

package lanes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/location"
	"github.com/Iron-Ham/lanes/internal/logging"
	"github.com/Iron-Ham/lanes/internal/registry"
	"github.com/Iron-Ham/lanes/internal/session"
	"github.com/Iron-Ham/lanes/internal/worktree"
)

func newTestService(t *testing.T, mutate func(*Options)) *Service {
	t.Helper()
	opts := Options{
		RepoRoot: t.TempDir(),
		Resolver: location.NewResolver(location.Options{}),
		Logger:   logging.NopLogger(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

func writeStatus(t *testing.T, svc *Service, name, state string) {
	t.Helper()
	path, err := svc.Status().Path(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf(`{"status":%q}`, state)), 0644); err != nil {
		t.Fatal(err)
	}
}

// trackingProvider wraps a DirProvider and records overlapping Create calls.
type trackingProvider struct {
	*worktree.DirProvider
	active  atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
}

func (p *trackingProvider) Create(ctx context.Context, repoRoot, name string) (string, error) {
	if p.active.Add(1) > 1 {
		p.overlap.Store(true)
	}
	defer p.active.Add(-1)
	time.Sleep(p.delay)
	return p.DirProvider.Create(ctx, repoRoot, name)
}

// -----------------------------------------------------------------------------
// CreateSession
// -----------------------------------------------------------------------------

func TestCreateSession(t *testing.T) {
	svc := newTestService(t, nil)

	created, err := svc.CreateSession(context.Background(), CreateRequest{
		Name:           "feature-x",
		Prompt:         "add a flag",
		Workflow:       "tdd",
		PermissionMode: "plan",
		Terminal:       session.TerminalTmux,
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if created.WorktreePath != filepath.Join(svc.RepoRoot(), worktree.DefaultFolder, "feature-x") {
		t.Errorf("WorktreePath = %q", created.WorktreePath)
	}
	if _, err := os.Stat(created.WorktreePath); err != nil {
		t.Errorf("worktree not created: %v", err)
	}
	if !regexp.MustCompile(`^feature-x-[A-Za-z0-9]{6}$`).MatchString(created.TaskListID) {
		t.Errorf("TaskListID = %q", created.TaskListID)
	}
	if prompt, ok := svc.Sessions().ReadPrompt("feature-x"); !ok || prompt != "add a flag" {
		t.Errorf("prompt = %q, %v", prompt, ok)
	}
	if created.PromptPath == "" {
		t.Error("PromptPath should be set")
	}

	store := svc.Sessions()
	if v, _ := store.Workflow("feature-x"); v != "tdd" {
		t.Errorf("Workflow = %q", v)
	}
	if v, _ := store.PermissionMode("feature-x"); v != "plan" {
		t.Errorf("PermissionMode = %q", v)
	}
	if v, _ := store.TerminalMode("feature-x"); v != session.TerminalTmux {
		t.Errorf("TerminalMode = %q", v)
	}
	if id, _ := store.TaskListID("feature-x"); id != created.TaskListID {
		t.Errorf("stored TaskListID = %q, want %q", id, created.TaskListID)
	}
}

func TestCreateSession_Validation(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.CreateSession(context.Background(), CreateRequest{Name: "../etc"}); !errors.Is(err, errors.ErrInvalidSessionName) {
		t.Errorf("expected ErrInvalidSessionName, got %v", err)
	}
	if _, err := svc.CreateSession(context.Background(), CreateRequest{Name: "s", Terminal: "iterm"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateSession_Duplicate(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, CreateRequest{Name: "s"}); err != nil {
		t.Fatalf("first CreateSession failed: %v", err)
	}
	_, err := svc.CreateSession(ctx, CreateRequest{Name: "s"})
	if !errors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateSession_ConcurrentRequestsAreSerialized(t *testing.T) {
	provider := &trackingProvider{DirProvider: worktree.NewDirProvider(""), delay: 10 * time.Millisecond}
	svc := newTestService(t, func(o *Options) { o.Worktrees = provider })

	const n = 6
	var wg sync.WaitGroup
	var succeeded, duplicates atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Pairs of requests share a name.
			_, err := svc.CreateSession(context.Background(), CreateRequest{Name: fmt.Sprintf("s%d", i/2)})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, errors.ErrAlreadyExists):
				duplicates.Add(1)
			default:
				t.Errorf("request %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if provider.overlap.Load() {
		t.Error("worktree creation overlapped")
	}
	if succeeded.Load() != n/2 || duplicates.Load() != n/2 {
		t.Errorf("succeeded = %d, duplicates = %d, want %d each", succeeded.Load(), duplicates.Load(), n/2)
	}
}

func TestCreateSession_StateFailureDoesNotFailCreation(t *testing.T) {
	svc := newTestService(t, nil)

	// Block the session storage directory with a regular file.
	if err := os.MkdirAll(filepath.Join(svc.RepoRoot(), ".lanes"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(location.LegacyDir(svc.RepoRoot()), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	created, err := svc.CreateSession(context.Background(), CreateRequest{Name: "s", Prompt: "p"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.TaskListID != "" || created.PromptPath != "" {
		t.Errorf("expected empty persisted fields, got %+v", created)
	}
}

type failingProvider struct{ worktree.DirProvider }

func (failingProvider) Create(context.Context, string, string) (string, error) {
	return "", errors.New("disk full")
}

func TestCreateSession_WorktreeFailure(t *testing.T) {
	svc := newTestService(t, func(o *Options) { o.Worktrees = &failingProvider{} })

	if _, err := svc.CreateSession(context.Background(), CreateRequest{Name: "s"}); err == nil {
		t.Fatal("expected worktree failure to be returned")
	}
	if svc.Sessions().Exists("s") {
		t.Error("no session state should be written when the worktree fails")
	}

	// The queue keeps working after a failure.
	svc.worktrees = worktree.NewDirProvider("")
	if _, err := svc.CreateSession(context.Background(), CreateRequest{Name: "s"}); err != nil {
		t.Errorf("CreateSession after failure: %v", err)
	}
}

type slowProvider struct {
	worktree.DirProvider
	release chan struct{}
}

func (p *slowProvider) Create(ctx context.Context, repoRoot, name string) (string, error) {
	<-p.release
	return p.DirProvider.Create(context.Background(), repoRoot, name)
}

func TestCreateSession_Timeout(t *testing.T) {
	provider := &slowProvider{release: make(chan struct{})}
	svc := newTestService(t, func(o *Options) {
		o.Worktrees = provider
		o.CreateTimeout = 20 * time.Millisecond
	})

	_, err := svc.CreateSession(context.Background(), CreateRequest{Name: "s"})
	if !errors.Is(err, errors.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	close(provider.release)

	// The timed-out creation still runs to completion; its result is
	// only discarded. The task list id is its last write.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := svc.Sessions().TaskListID("s"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed-out creation never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	svc.createTimeout = 0
	if _, err := svc.CreateSession(context.Background(), CreateRequest{Name: "after"}); err != nil {
		t.Fatalf("CreateSession after timeout: %v", err)
	}
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

func TestView_Defaults(t *testing.T) {
	svc := newTestService(t, nil)

	view := svc.View("s")
	if view.State != agent.StateIdle {
		t.Errorf("State = %q, want idle", view.State)
	}
	if view.Workflow != nil || view.HasSessionID || view.ChimeEnabled || view.Chime {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestView_ChimeOnTransition(t *testing.T) {
	svc := newTestService(t, nil)
	if err := svc.Sessions().SetChimeEnabled("s", true); err != nil {
		t.Fatal(err)
	}

	writeStatus(t, svc, "s", "working")
	if svc.View("s").Chime {
		t.Error("working should not chime")
	}
	writeStatus(t, svc, "s", "waiting_for_user")
	if !svc.View("s").Chime {
		t.Error("entering waiting_for_user should chime")
	}
	if svc.View("s").Chime {
		t.Error("staying in waiting_for_user should not chime again")
	}
}

func TestView_ChimeDisabled(t *testing.T) {
	svc := newTestService(t, nil)
	writeStatus(t, svc, "s", "waiting_for_user")

	view := svc.View("s")
	if view.State != agent.StateWaitingForUser || view.Chime {
		t.Errorf("view = %+v", view)
	}
}

func TestView_WorkflowSnapshot(t *testing.T) {
	svc := newTestService(t, nil)
	path := svc.WorktreePath("s")
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	snapshot := `{"status":"running","workflow":"tdd","step":"red","task":{"index":1}}`
	if err := os.WriteFile(filepath.Join(path, "workflow-state.json"), []byte(snapshot), 0644); err != nil {
		t.Fatal(err)
	}

	view := svc.View("s")
	if view.Workflow == nil || !view.Workflow.Active || view.Workflow.Progress != "Task 2" {
		t.Errorf("Workflow = %+v", view.Workflow)
	}
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	for _, name := range []string{"b", "a"} {
		if _, err := svc.CreateSession(ctx, CreateRequest{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	writeStatus(t, svc, "a", "working")

	views := svc.Refresh(nil)
	if len(views) != 2 || views[0].Name != "a" || views[1].Name != "b" {
		t.Fatalf("Refresh = %+v", views)
	}
	if views[0].State != agent.StateWorking || views[1].State != agent.StateIdle {
		t.Errorf("states = %q, %q", views[0].State, views[1].State)
	}

	named := svc.Refresh([]string{"b"})
	if len(named) != 1 || named[0].Name != "b" {
		t.Errorf("Refresh([b]) = %+v", named)
	}
}

func TestRefresh_ForgetsRemovedSessions(t *testing.T) {
	svc := newTestService(t, nil)
	if err := svc.Sessions().SetChimeEnabled("gone", true); err != nil {
		t.Fatal(err)
	}
	writeStatus(t, svc, "gone", "waiting_for_user")
	svc.Refresh(nil)

	if err := os.RemoveAll(filepath.Join(location.LegacyDir(svc.RepoRoot()), "gone")); err != nil {
		t.Fatal(err)
	}
	svc.Refresh(nil)

	if _, ok := svc.tracker.Last("gone"); ok {
		t.Error("removed session should be forgotten")
	}
}

// -----------------------------------------------------------------------------
// Project registry
// -----------------------------------------------------------------------------

func TestRegisterProject(t *testing.T) {
	regPath := filepath.Join(t.TempDir(), "projects.json")
	svc := newTestService(t, func(o *Options) {
		o.Registry = registry.NewWriter(regPath, nil)
	})
	reg := registry.NewWriter(regPath, nil)

	if !svc.RegisterProject("", []string{"go"}, "") {
		t.Fatal("RegisterProject failed")
	}
	records := reg.List()
	if len(records) != 1 || records[0].Name != filepath.Base(svc.RepoRoot()) || !records[0].Enabled {
		t.Fatalf("records = %+v", records)
	}

	if !svc.UnregisterProject() {
		t.Fatal("UnregisterProject failed")
	}
	if records := reg.List(); len(records) != 0 {
		t.Errorf("records after unregister = %+v", records)
	}
}

func TestRegisterProject_NoRegistry(t *testing.T) {
	svc := newTestService(t, nil)
	if svc.RegisterProject("x", nil, "") || svc.UnregisterProject() {
		t.Error("registry operations should fail without a registry")
	}
}

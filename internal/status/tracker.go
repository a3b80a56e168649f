package status

import (
	"sync"

	"github.com/Iron-Ham/lanes/internal/agent"
)

// Tracker remembers the last state observed per session so a presenter can
// fire a one-shot notification when a session starts waiting for the user.
// It is safe for concurrent use.
type Tracker struct {
	mu   sync.Mutex
	last map[string]agent.State
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]agent.State)}
}

// Observe records state for name and reports whether this observation is a
// transition into waiting_for_user. The first observation of a session that
// is already waiting counts as a transition.
func (t *Tracker) Observe(name string, state agent.State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, seen := t.last[name]
	t.last[name] = state
	return state == agent.StateWaitingForUser && (!seen || prev != agent.StateWaitingForUser)
}

// Last returns the most recently observed state for name.
func (t *Tracker) Last(name string) (agent.State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.last[name]
	return state, ok
}

// Forget drops the remembered state for name.
func (t *Tracker) Forget(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, name)
}

// Names returns every session with a remembered state.
func (t *Tracker) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.last))
	for name := range t.last {
		names = append(names, name)
	}
	return names
}

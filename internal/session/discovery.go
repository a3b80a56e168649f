package session

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/location"
)

// Info summarizes a session found on disk.
type Info struct {
	Name       string `json:"name"`
	SessionDir string `json:"sessionDir"`
	HasID      bool   `json:"hasId"`
	Workflow   string `json:"workflow,omitempty"`
}

// List returns every session with a session document in the active
// storage layout, sorted by name. Directories whose names are not valid
// session names are skipped. A missing storage directory yields no sessions.
func (s *Store) List() ([]Info, error) {
	repoDir := s.resolver.RepoDir(s.repoRoot)
	entries, err := os.ReadDir(repoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	fileName := agent.SessionFileName(s.resolver.Agent())
	var sessions []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if location.ValidateSessionName(name) != nil {
			continue
		}
		dir := filepath.Join(repoDir, name)
		if _, err := os.Stat(filepath.Join(dir, fileName)); err != nil {
			continue
		}
		_, hasID := s.SessionID(name)
		workflow, _ := s.Workflow(name)
		sessions = append(sessions, Info{
			Name:       name,
			SessionDir: dir,
			HasID:      hasID,
			Workflow:   workflow,
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Name < sessions[j].Name
	})
	return sessions, nil
}

// Exists reports whether name has a session document.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

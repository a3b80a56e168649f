package session

import (
	"os"

	"github.com/Iron-Ham/lanes/internal/document"
	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/location"
)

// PromptPath returns where the prompt for name is stored. A valid custom
// prompts folder takes precedence over the session directory.
func (s *Store) PromptPath(name string) (string, error) {
	loc, err := s.resolver.Resolve(s.repoRoot, name, location.KindPrompt)
	if err != nil {
		return "", err
	}
	return loc.Path, nil
}

// WritePrompt stores the initial prompt for name and returns its path.
func (s *Store) WritePrompt(name, text string) (string, error) {
	path, err := s.PromptPath(name)
	if err != nil {
		s.logger.Warn("cannot write prompt", "session", name, "error", err.Error())
		return "", err
	}
	if err := document.WriteFileAtomic(path, []byte(text), 0644); err != nil {
		s.logger.Warn("failed to write prompt", "session", name, "path", path, "error", err.Error())
		return "", errors.NewStorageError("write prompt", path, err)
	}
	return path, nil
}

// ReadPrompt returns the stored prompt for name.
func (s *Store) ReadPrompt(name string) (string, bool) {
	path, err := s.PromptPath(name)
	if err != nil {
		return "", false
	}
	data, ok := readFile(path)
	if !ok {
		return "", false
	}
	return string(data), true
}

func readFile(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

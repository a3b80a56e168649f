package location

import (
	"os"
	"path/filepath"
)

// DefaultBaseDir returns the installation-wide directory for global storage.
//
// Resolution order:
//  1. LANES_HOME → $LANES_HOME/state
//  2. XDG_STATE_HOME → $XDG_STATE_HOME/lanes
//  3. ~/.local/state/lanes
//
// Returns "" when no home directory can be determined, which leaves global
// storage uninitialized.
func DefaultBaseDir() string {
	if home := os.Getenv("LANES_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "lanes")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "lanes")
	}
	return ""
}

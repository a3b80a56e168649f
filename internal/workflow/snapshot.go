// Package workflow reads workflow progress written by agents and discovers
// the workflow templates a session can be started with.
package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/lanes/internal/document"
)

// StateFileName is the workflow progress file in a worktree root.
const StateFileName = "workflow-state.json"

// Snapshot is the parsed content of a workflow state file.
type Snapshot struct {
	Status   string
	Workflow string
	Step     string
	Summary  string

	// Active is true while the workflow status is "running".
	Active bool

	// Progress is "Task <n>" with n one-based, or "" when the file names no task.
	Progress string
}

// ReadSnapshot reads the workflow state file in worktreePath. A missing or
// malformed file, or one without a string status, yields (nil, false).
func ReadSnapshot(worktreePath string) (*Snapshot, bool) {
	data, err := os.ReadFile(filepath.Join(worktreePath, StateFileName))
	if err != nil {
		return nil, false
	}
	return ParseSnapshot(data)
}

// ParseSnapshot parses workflow state content.
func ParseSnapshot(data []byte) (*Snapshot, bool) {
	doc, ok := document.Parse(data)
	if !ok {
		return nil, false
	}
	status, ok := doc.GetString("status")
	if !ok {
		return nil, false
	}

	snap := &Snapshot{Status: status, Active: status == "running"}
	snap.Workflow, _ = doc.GetString("workflow")
	snap.Step, _ = doc.GetString("step")
	snap.Summary, _ = doc.GetString("summary")

	if task, ok := doc["task"].(map[string]any); ok {
		if index, ok := task["index"].(float64); ok && index >= 0 && index == float64(int(index)) {
			snap.Progress = fmt.Sprintf("Task %d", int(index)+1)
		}
	}
	return snap, true
}

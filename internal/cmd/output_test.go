package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/lanes/internal/agent"
	"github.com/Iron-Ham/lanes/internal/lanes"
	"github.com/Iron-Ham/lanes/internal/workflow"
)

func TestTruncateLine(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"no width", "feature-x  working", 0, "feature-x  working"},
		{"fits", "short", 10, "short"},
		{"exact", "abcdef", 6, "abcdef"},
		{"truncated", "feature-x  waiting_for_user  approve the plan", 20, "feature-x  waitin..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateLine(tt.in, tt.width); got != tt.want {
				t.Errorf("truncateLine(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateLine_Styled(t *testing.T) {
	line := "s  " + stateLabel(agent.StateWaitingForUser, true) + "  a long message that overflows"
	got := truncateLine(line, 12)
	if w := ansi.StringWidth(got); w > 12 {
		t.Errorf("width = %d, want <= 12", w)
	}
	if !strings.HasSuffix(ansi.Strip(got), "...") {
		t.Errorf("truncated line = %q", ansi.Strip(got))
	}
}

func TestFormatStatusLine(t *testing.T) {
	tests := []struct {
		name string
		view lanes.SessionView
		want string
	}{
		{
			name: "idle",
			view: lanes.SessionView{Name: "s", State: agent.StateIdle},
			want: "s  idle",
		},
		{
			name: "message",
			view: lanes.SessionView{Name: "s", State: agent.StateError, Message: "boom"},
			want: "s  error  boom",
		},
		{
			name: "workflow",
			view: lanes.SessionView{
				Name:     "s",
				State:    agent.StateWorking,
				Workflow: &workflow.Snapshot{Workflow: "tdd", Step: "green", Progress: "Task 3"},
			},
			want: "s  working  tdd/green Task 3",
		},
		{
			name: "empty workflow",
			view: lanes.SessionView{Name: "s", State: agent.StateWorking, Workflow: &workflow.Snapshot{Status: "done"}},
			want: "s  working",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusLine(tt.view, false); got != tt.want {
				t.Errorf("formatStatusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	if w := terminalWidth(new(bytes.Buffer)); w != 0 {
		t.Errorf("terminalWidth(buffer) = %d, want 0", w)
	}
	if isTerminal(new(bytes.Buffer)) {
		t.Error("buffer reported as terminal")
	}
}

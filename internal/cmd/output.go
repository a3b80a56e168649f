package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/Iron-Ham/lanes/internal/agent"
)

var stateStyles = map[agent.State]lipgloss.Style{
	agent.StateIdle:           lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	agent.StateWorking:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	agent.StateWaitingForUser: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	agent.StateActive:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	agent.StateError:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// truncateLine shortens s to width display columns, keeping ANSI styling
// intact. A width of 0 or less leaves s unchanged.
func truncateLine(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

// stateLabel renders state, colored when styled is true.
func stateLabel(state agent.State, styled bool) string {
	label := string(state)
	if !styled {
		return label
	}
	if style, ok := stateStyles[state]; ok {
		return style.Render(label)
	}
	return label
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(w, "%s: %s\n", label, value)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/lanes/internal/lanes"
)

// statusEntry is the JSON shape printed by "status --json".
type statusEntry struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	Message  string `json:"message,omitempty"`
	Workflow string `json:"workflow,omitempty"`
	Step     string `json:"step,omitempty"`
	Progress string `json:"progress,omitempty"`
	Running  bool   `json:"running"`
}

func newStatusCmd() *cobra.Command {
	var asJSON, chime bool

	cmd := &cobra.Command{
		Use:   "status [name...]",
		Short: "Show agent status for sessions",
		Long: `Show the status each session's agent last reported, along with
workflow progress. Without names, every session with stored state is
shown. Sessions without a valid status file show as idle.

With --chime, a bell is written for each session that is waiting for you
and has the chime enabled. Transitions are tracked only within one
invocation, so every run rings for every such session.`,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			views := a.service.Refresh(args)
			out := cmd.OutOrStdout()

			if asJSON {
				entries := make([]statusEntry, 0, len(views))
				for _, v := range views {
					entries = append(entries, toStatusEntry(v))
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(views) == 0 {
				fmt.Fprintln(out, "No sessions")
				return nil
			}
			printViews(out, views, chime)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&chime, "chime", false, "ring the bell for sessions waiting with the chime enabled")
	return cmd
}

func printViews(out io.Writer, views []lanes.SessionView, chime bool) {
	styled := isTerminal(out)
	width := terminalWidth(out)
	for _, v := range views {
		fmt.Fprintln(out, truncateLine(formatStatusLine(v, styled), width))
		if chime && v.Chime {
			fmt.Fprint(out, "\a")
		}
	}
}

func toStatusEntry(v lanes.SessionView) statusEntry {
	e := statusEntry{Name: v.Name, State: string(v.State), Message: v.Message}
	if w := v.Workflow; w != nil {
		e.Workflow = w.Workflow
		e.Step = w.Step
		e.Progress = w.Progress
		e.Running = w.Active
	}
	return e
}

func formatStatusLine(v lanes.SessionView, styled bool) string {
	parts := []string{v.Name, stateLabel(v.State, styled)}
	if w := v.Workflow; w != nil {
		detail := w.Workflow
		if w.Step != "" {
			detail += "/" + w.Step
		}
		if w.Progress != "" {
			detail += " " + w.Progress
		}
		if strings.TrimSpace(detail) != "" {
			parts = append(parts, strings.TrimSpace(detail))
		}
	}
	if v.Message != "" {
		parts = append(parts, v.Message)
	}
	return strings.Join(parts, "  ")
}

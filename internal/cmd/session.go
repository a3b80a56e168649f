package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/lanes/internal/lanes"
	"github.com/Iron-Ham/lanes/internal/session"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Create sessions and read or change their state",
	}
	sessionCmd.AddCommand(
		newSessionCreateCmd(),
		newSessionGetCmd(),
		newSessionSetCmd(),
		newSessionClearIDCmd(),
		newSessionTaskListCmd(),
		newSessionPromptCmd(),
		newSessionListCmd(),
	)
	return sessionCmd
}

func newSessionCreateCmd() *cobra.Command {
	var req lanes.CreateRequest
	var terminal, promptFile string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a session worktree and its initial state",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			req.Name = args[0]
			req.Terminal = session.TerminalMode(terminal)
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("failed to read prompt file: %w", err)
				}
				req.Prompt = string(data)
			}

			created, err := a.service.CreateSession(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session: %s\n", created.Name)
			fmt.Fprintf(out, "Worktree: %s\n", created.WorktreePath)
			if created.PromptPath != "" {
				fmt.Fprintf(out, "Prompt: %s\n", created.PromptPath)
			}
			if created.TaskListID != "" {
				fmt.Fprintf(out, "Task list: %s\n", created.TaskListID)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&req.Prompt, "prompt", "p", "", "initial prompt")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "read the initial prompt from a file")
	cmd.Flags().StringVarP(&req.Workflow, "workflow", "w", "", "workflow template name")
	cmd.Flags().StringVar(&req.PermissionMode, "permission-mode", "", "agent permission mode")
	cmd.Flags().StringVar(&terminal, "terminal", "", "terminal mode (code or tmux)")
	cmd.MarkFlagsMutuallyExclusive("prompt", "prompt-file")
	return cmd
}

// sessionDetails is the JSON shape printed by "session get".
type sessionDetails struct {
	Name           string `json:"name"`
	SessionID      string `json:"sessionId,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	Workflow       string `json:"workflow,omitempty"`
	PermissionMode string `json:"permissionMode,omitempty"`
	Terminal       string `json:"terminal,omitempty"`
	ChimeEnabled   bool   `json:"isChimeEnabled"`
	TaskListID     string `json:"taskListId,omitempty"`
	AgentName      string `json:"agentName"`
	Path           string `json:"path"`
}

func newSessionGetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show the stored state of a session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			name := args[0]
			store := a.service.Sessions()
			path, err := store.Path(name)
			if err != nil {
				return err
			}

			d := sessionDetails{
				Name:         name,
				ChimeEnabled: store.ChimeEnabled(name),
				AgentName:    store.AgentName(name),
				Path:         path,
			}
			if data, ok := store.SessionID(name); ok {
				d.SessionID = data.SessionID
				d.Timestamp = data.Timestamp
			}
			d.Workflow, _ = store.Workflow(name)
			d.PermissionMode, _ = store.PermissionMode(name)
			if mode, ok := store.TerminalMode(name); ok {
				d.Terminal = string(mode)
			}
			d.TaskListID, _ = store.TaskListID(name)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			fmt.Fprintf(out, "Session: %s\n", d.Name)
			fmt.Fprintf(out, "Path: %s\n", d.Path)
			fmt.Fprintf(out, "Agent: %s\n", d.AgentName)
			printField(out, "Session ID", d.SessionID)
			printField(out, "Workflow", d.Workflow)
			printField(out, "Permission mode", d.PermissionMode)
			printField(out, "Terminal", d.Terminal)
			printField(out, "Task list", d.TaskListID)
			fmt.Fprintf(out, "Chime: %t\n", d.ChimeEnabled)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// settableFields lists the fields "session set" accepts.
var settableFields = []string{"session-id", "workflow", "permission-mode", "terminal", "chime"}

func newSessionSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <field> <value>",
		Short: "Change one field of a session",
		Long: fmt.Sprintf(`Change one field of a session. Other fields are left untouched.

Fields: %s`, strings.Join(settableFields, ", ")),
		Args: cobra.ExactArgs(3),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			name, field, value := args[0], args[1], args[2]
			store := a.service.Sessions()

			var err error
			switch field {
			case "session-id":
				err = store.SetSessionID(name, value)
			case "workflow":
				err = store.SetWorkflow(name, value)
			case "permission-mode":
				err = store.SetPermissionMode(name, value)
			case "terminal":
				err = store.SetTerminalMode(name, session.TerminalMode(value))
			case "chime":
				enabled, parseErr := strconv.ParseBool(value)
				if parseErr != nil {
					return fmt.Errorf("chime must be true or false: %w", parseErr)
				}
				err = store.SetChimeEnabled(name, enabled)
			default:
				return fmt.Errorf("unknown field %q (valid: %s)", field, strings.Join(settableFields, ", "))
			}
			if err != nil {
				return fmt.Errorf("failed to set %s: %w", field, err)
			}
			return nil
		}),
	}
}

func newSessionClearIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-id <name>",
		Short: "Forget the agent session id, keeping other state",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.service.Sessions().ClearSessionID(args[0]); err != nil {
				return fmt.Errorf("failed to clear session id: %w", err)
			}
			return nil
		}),
	}
}

func newSessionTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "task-list <name>",
		Short: "Print the session's task list id, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := a.service.Sessions().GetOrCreateTaskListID(args[0])
			if err != nil {
				return fmt.Errorf("failed to get task list id: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		}),
	}
}

func newSessionPromptCmd() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "prompt <name>",
		Short: "Print or replace the session's prompt",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			store := a.service.Sessions()
			if cmd.Flags().Changed("set") {
				path, err := store.WritePrompt(args[0], set)
				if err != nil {
					return fmt.Errorf("failed to write prompt: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			prompt, ok := store.ReadPrompt(args[0])
			if !ok {
				return fmt.Errorf("no prompt stored for session %q", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), prompt)
			return nil
		}),
	}

	cmd.Flags().StringVar(&set, "set", "", "replace the prompt with this text")
	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions with stored state",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			sessions, err := a.service.Sessions().List()
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions")
				return nil
			}
			for _, s := range sessions {
				line := s.Name
				if s.Workflow != "" {
					line += " [" + s.Workflow + "]"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		}),
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/lanes/internal/workflow"
)

func newWorkflowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "List available workflow templates",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			dirs := a.cfg.Workflows.ResolveDirs(a.repoRoot)
			templates, err := workflow.Discover(dirs, a.cfg.Workflows.Pattern, a.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(templates) == 0 {
				fmt.Fprintln(out, "No workflow templates")
				return nil
			}
			for _, t := range templates {
				if t.Description != "" {
					fmt.Fprintf(out, "%s\t%s\n", t.Name, t.Description)
				} else {
					fmt.Fprintln(out, t.Name)
				}
			}
			return nil
		}),
	}
}

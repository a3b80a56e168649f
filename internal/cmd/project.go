package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage this repository's entry in the shared project registry",
	}
	projectCmd.AddCommand(newProjectAddCmd(), newProjectRemoveCmd(), newProjectListCmd())
	return projectCmd
}

func newProjectAddCmd() *cobra.Command {
	var name, group string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update the repository in the project registry",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if !a.service.RegisterProject(name, tags, group) {
				return fmt.Errorf("failed to update project registry %s", a.registry.Path())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", a.repoRoot)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (default is the directory name)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach (repeatable)")
	cmd.Flags().StringVar(&group, "group", "", "group name")
	return cmd
}

func newProjectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the repository from the project registry",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if !a.service.UnregisterProject() {
				return fmt.Errorf("failed to update project registry %s", a.registry.Path())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unregistered %s\n", a.repoRoot)
			return nil
		}),
	}
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			out := cmd.OutOrStdout()
			records := a.registry.List()
			if len(records) == 0 {
				fmt.Fprintln(out, "No projects")
				return nil
			}
			for _, r := range records {
				state := ""
				if !r.Enabled {
					state = " (disabled)"
				}
				fmt.Fprintf(out, "%s\t%s%s\n", r.Name, r.RootPath, state)
			}
			return nil
		}),
	}
}

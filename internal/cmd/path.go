package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/lanes/internal/location"
)

func newPathCmd() *cobra.Command {
	var kind string
	var dir bool

	cmd := &cobra.Command{
		Use:   "path <name>",
		Short: "Print where a session artifact is stored",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if kind == "worktree" {
				fmt.Fprintln(cmd.OutOrStdout(), a.service.WorktreePath(args[0]))
				return nil
			}
			loc, err := a.resolver.Resolve(a.repoRoot, args[0], location.Kind(kind))
			if err != nil {
				return err
			}
			if dir {
				fmt.Fprintln(cmd.OutOrStdout(), loc.Dir)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), loc.Path)
			}
			return nil
		}),
	}

	kinds := make([]string, 0, len(location.Kinds())+1)
	for _, k := range location.Kinds() {
		kinds = append(kinds, string(k))
	}
	kinds = append(kinds, "worktree")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(location.KindSession), "artifact kind ("+strings.Join(kinds, ", ")+")")
	cmd.Flags().BoolVar(&dir, "dir", false, "print the directory that holds the artifact")
	return cmd
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/lanes/internal/location"
)

func newRepoIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repo-id [path]",
		Short: "Print the global storage identifier for a repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := repoRootFlag(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if root, err = filepath.Abs(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), location.RepoIdentifier(root))
			return nil
		},
	}
}

// Package cmd implements the lanes command line interface.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/lanes/internal/config"
)

// NewRootCmd builds the lanes command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lanes",
		Short: "Session state for parallel coding-agent worktrees",
		Long: `Lanes tracks per-session state for coding agents that each work in
their own worktree: the agent's session id, workflow, terminal and
permission preferences, task list id, and the agent's live status.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/lanes/config.yaml)")
	rootCmd.PersistentFlags().String("repo", "", "repository root (default is the current directory)")
	rootCmd.PersistentFlags().Bool("local", false, "keep session state inside the repository instead of global storage")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(
		newSessionCmd(),
		newStatusCmd(),
		newPathCmd(),
		newProjectCmd(),
		newWorkflowsCmd(),
		newRepoIDCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/lanes")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LANES")
	// e.g., LANES_QUEUE_TIMEOUT_MS for queue.timeout_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

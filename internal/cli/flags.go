// Package cli implements the dircompare command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GlobalFlags holds flags shared by every subcommand
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// NewRootCommand builds the dircompare command with all subcommands attached
func NewRootCommand() *cobra.Command {
	globalFlags = GlobalFlags{}

	cmd := &cobra.Command{
		Use:   "dircompare",
		Short: "Compare two directory trees",
		Long: `dircompare compares two directory trees and reports which entries exist
only in one of them and which exist in both. Entries can be matched by name,
size, a fast content hash or a sampled content hash, or grouped by content
across paths to find duplicates and moved files.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", resolvedVersion(), Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd)

	cmd.AddCommand(NewCompareCommand())
	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "",
		"config file (default is $DIRCOMPARE_CONFIG or $HOME/.config/dircompare/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false,
		"print a report header and log at info level")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false,
		"suppress the progress bar, logs below error and the report on stdout")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

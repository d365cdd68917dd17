// Package cli defines the stackpatch command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stackpatch",
		Short: "Stackpatch materializes review revisions as local commits",
		Long: `Stackpatch is a command line client for Phabricator-style review services.
It fetches a revision and its dependency stack and reconstructs the changes
as commits (or raw patches) in the local working tree.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Add subcommands
	rootCmd.AddCommand(newPatchCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Package cmd defines the barefoot command tree.
package cmd

import (
	"github.com/barefootnomad/api/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// serves the API.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "barefoot",
		Short:         "Barefoot Nomad travel request API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig is swapped in tests.
var loadConfig = config.Load

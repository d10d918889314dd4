package main

import (
	"github.com/spf13/cobra"
	"github.com/tnqbao/gau-showcase-admin/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "maintenance",
		Short:         "Maintenance tasks for the showcase admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd(cfg))
	root.AddCommand(newSweepCmd(cfg))
	return root
}

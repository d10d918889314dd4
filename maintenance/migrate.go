package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"github.com/tnqbao/gau-showcase-admin/repository"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the showcase tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			postgres := infra.InitPostgresClient(cfg.EnvConfig)
			if err := repository.Migrate(postgres.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return err
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/teamspend/internal/database"
)

var migrateTarget int64

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(m *database.Migrator) error {
			return m.Up(cmd.Context())
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration, or down to --to",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(m *database.Migrator) error {
			return m.Down(cmd.Context(), migrateTarget)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(m *database.Migrator) error {
			return m.Status(cmd.Context())
		})
	},
}

func init() {
	migrateDownCmd.Flags().Int64Var(&migrateTarget, "to", 0, "Target version to roll back to")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(cmd *cobra.Command, fn func(*database.Migrator) error) error {
	db, err := database.New(cmd.Context(), cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}

	return fn(m)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

// migrator loads config, opens the SQL connection and returns a runner
// printing to the command's output.
func migrator(cmd *cobra.Command) (*migration.Runner, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	r := migration.New(database.DB)
	r.Out = cmd.OutOrStdout()
	return r, nil
}

// catalog migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := migrator(cmd)
		if err != nil {
			return err
		}
		defer database.Close(database.DB)
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return r.Run()
	},
}

// catalog migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := migrator(cmd)
		if err != nil {
			return err
		}
		defer database.Close(database.DB)
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return r.Rollback()
	},
}

// catalog migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := migrator(cmd)
		if err != nil {
			return err
		}
		defer database.Close(database.DB)
		return r.Status()
	},
}

// catalog seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all seeders against the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		// boot would seed on its own when SEED_ON_BOOT is on.
		config.Set("SEED_ON_BOOT", "false")
		k, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.close(cmd.Context())

		if config.StoreDriver() == "memory" {
			fmt.Fprintln(cmd.OutOrStdout(), "Note: the memory store is discarded when this command exits.")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		if err := seeders.RunAll(cmd.Context(), k.store); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Seeding complete (%d seeders)\n", len(seeders.Names()))
		return nil
	},
}

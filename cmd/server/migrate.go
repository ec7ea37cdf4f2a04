package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/database/database"
	"github.com/festy23/converge/internal/database/migrate"
)

var migrationsDir string

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", migrate.GetMigrationsPath(),
		"migrations directory (defaults to MIGRATIONS_PATH)")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
	Long: `Manage database schema migrations.

Examples:
  # Apply all pending migrations
  converge migrate up

  # Roll back the last migration
  converge migrate down 1

  # Show the current schema version
  converge migrate version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd, func(db *gorm.DB) error {
			if err := migrate.Up(db, migrationsDir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down <steps>",
	Short: "Roll back the given number of migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid steps %q: %w", args[0], err)
		}
		return withDatabase(cmd, func(db *gorm.DB) error {
			if err := migrate.Down(db, migrationsDir, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd, func(db *gorm.DB) error {
			v, dirty, err := migrate.Version(db, migrationsDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

// withDatabase opens the database from DB_* variables for the duration of fn.
func withDatabase(cmd *cobra.Command, fn func(db *gorm.DB) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cmd.Context(), database.OptionsFromEnv(log))
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	return fn(db)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/store"
)

// migrator is the subset of store.Migrator the migrate command uses.
type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() error
}

// newMigrator is swapped out in tests.
var newMigrator = func(databaseURL string) (migrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate subcommand with up, down, and
// version subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect schema migrations on the PostgreSQL database.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m migrator) error {
					if err := m.Up(); err != nil {
						return oops.Code("MIGRATION_FAILED").Wrapf(err, "apply migrations")
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m migrator) error {
					if err := m.Down(); err != nil {
						return oops.Code("MIGRATION_FAILED").Wrapf(err, "roll back migrations")
					}
					cmd.Println("Migrations rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return oops.Code("MIGRATION_FAILED").Wrapf(err, "read migration version")
					}
					if version == 0 {
						cmd.Println("No migrations applied")
						return nil
					}
					cmd.Printf("Version: %d (dirty: %v)\n", version, dirty)
					return nil
				})
			},
		},
	)

	return cmd
}

// withMigrator resolves the database URL, opens a migrator, runs fn,
// and closes the migrator.
func withMigrator(fn func(migrator) error) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").New("database URL is required (set DATABASE_URL or database_url)")
	}

	m, err := newMigrator(cfg.DatabaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").Wrapf(err, "open migrator")
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Debug("error closing migrator", "error", closeErr)
		}
	}()

	return fn(m)
}

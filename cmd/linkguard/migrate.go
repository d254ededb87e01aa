// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/linkguard/internal/store"
)

// schemaMigrator is the part of *store.Migrator the commands use.
type schemaMigrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
	Pending() ([]uint, error)
	Close() error
}

type migrateConfig struct {
	yes bool
	// open is replaced in tests.
	open func(databaseURL string) (schemaMigrator, error)
}

func newMigrateCmd(a *app) *cobra.Command {
	cfg := &migrateConfig{
		open: func(databaseURL string) (schemaMigrator, error) {
			return store.NewMigrator(databaseURL)
		},
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog database schema",
		Long:  `Applies, rolls back or inspects the catalog schema migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMigrator(cfg, func(m schemaMigrator) error {
				pending, err := m.Pending()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("Schema is up to date")
					return nil
				}
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Printf("Applied %d migration(s)\n", len(pending))
				return nil
			})
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration, dropping all catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cfg.yes {
				return oops.Code("CONFIRMATION_REQUIRED").Errorf("migrate down drops every catalog table; pass --yes to confirm")
			}
			return a.withMigrator(cfg, func(m schemaMigrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Rolled back all migrations")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&cfg.yes, "yes", false, "confirm dropping the catalog tables")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withMigrator(cfg, func(m schemaMigrator) error {
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Record VERSION as applied and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			return a.withMigrator(cfg, func(m schemaMigrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced schema version %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

func (a *app) withMigrator(cfg *migrateConfig, fn func(schemaMigrator) error) error {
	if a.cfg.Catalog.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database url is required (--database-url or DATABASE_URL)")
	}
	m, err := cfg.open(a.cfg.Catalog.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			a.logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()
	return fn(m)
}

func printVersion(cmd *cobra.Command, m schemaMigrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	pending, err := m.Pending()
	if err != nil {
		return err
	}

	name, err := store.MigrationName(version)
	if err != nil {
		return err
	}
	switch {
	case version == 0:
		cmd.Println("Version: none")
	case name != "":
		cmd.Printf("Version: %d (%s)\n", version, name)
	default:
		cmd.Printf("Version: %d\n", version)
	}
	if dirty {
		cmd.Println("State: dirty (fix the database, then run migrate force)")
	}
	cmd.Printf("Pending: %d\n", len(pending))
	return nil
}

// parseForceVersion accepts a non-negative integer.
func parseForceVersion(s string) (int, error) {
	version, err := strconv.Atoi(s)
	if err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Wrapf(err, "version must be an integer")
	}
	if version < 0 {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("version must be non-negative, got %s", s)
	}
	return version, nil
}


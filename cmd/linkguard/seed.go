// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/internal/catalog/postgres"
	"github.com/holomush/linkguard/pkg/errutil"
)

// Default timeout for database work done by the seed commands.
const defaultSeedTimeout = 30 * time.Second

const codeAlreadySeeded = "CATALOG_ALREADY_SEEDED"

type seedConfig struct {
	file    string
	replace bool
	timeout time.Duration
	out     string
}

func newSeedCmd(a *app) *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a catalog seed file into PostgreSQL",
		Long: `Imports every record of a seed file into the catalog tables in one
transaction. An already seeded catalog is left untouched unless --replace
is given, which empties the tables first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSeed(cmd, cfg)
		},
	}

	cmd.PersistentFlags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.file, "file", "", "seed file to import (default: the configured seed file)")
	cmd.Flags().BoolVar(&cfg.replace, "replace", false, "replace the existing catalog")

	cmd.AddCommand(newSeedCheckCmd(a, cfg))
	cmd.AddCommand(newSeedExportCmd(a, cfg))

	return cmd
}

func newSeedCheckCmd(a *app, cfg *seedConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a seed file without importing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.seedPath(cfg)
			if len(args) == 1 {
				path = args[0]
			}
			seed, err := catalog.LoadSeedFile(path)
			if err != nil {
				return err
			}
			m, err := seed.Build()
			if err != nil {
				return err
			}
			stats := m.Stats()
			cmd.Printf("%s: format %s, %d item(s), %d quest(s), %d spell(s), %d achievement(s)\n",
				path, seed.FormatVersion, stats.Items, stats.Quests, stats.Spells, stats.Achievements)
			return nil
		},
	}
}

func newSeedExportCmd(a *app, cfg *seedConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the PostgreSQL catalog as a seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSeedExport(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.out, "out", "", "output file (default: standard output)")
	return cmd
}

func (a *app) seedPath(cfg *seedConfig) string {
	if cfg.file != "" {
		return cfg.file
	}
	return a.cfg.Catalog.SeedFile
}

func (a *app) runSeed(cmd *cobra.Command, cfg *seedConfig) error {
	path := a.seedPath(cfg)
	if path == "" {
		return oops.Code("CONFIG_INVALID").Errorf("seed file is required (--file or --seed-file)")
	}
	seed, err := catalog.LoadSeedFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	var opts []postgres.ImporterOption
	if cfg.replace {
		opts = append(opts, postgres.WithReplace())
	}
	result, err := postgres.NewImporter(pool, opts...).Import(ctx, seed)
	if err != nil {
		if errutil.HasCode(err, codeAlreadySeeded) {
			cmd.Println("Catalog already seeded, skipping (use --replace to overwrite)")
			a.logger.Info("catalog already seeded", "file", path)
			return nil
		}
		return err
	}

	cmd.Printf("Imported %s as %s\n", path, result.ID)
	a.logger.Info("catalog imported",
		"import_id", result.ID.String(),
		"file", path,
		"replace", cfg.replace,
		"stats", result.Stats)
	return nil
}

func (a *app) runSeedExport(cmd *cobra.Command, cfg *seedConfig) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := postgres.NewLoader(pool).Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(catalog.SeedFromMemory(m))
	if err != nil {
		return oops.Code("SEED_ENCODE_FAILED").Wrap(err)
	}

	if cfg.out == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return oops.Wrapf(err, "write seed")
		}
		return nil
	}
	if err := os.WriteFile(cfg.out, data, 0o600); err != nil {
		return oops.Code("SEED_WRITE_FAILED").With("path", cfg.out).Wrap(err)
	}
	cmd.Printf("Wrote %s\n", cfg.out)
	return nil
}

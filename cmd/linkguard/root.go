// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/linkguard/internal/config"
	"github.com/holomush/linkguard/internal/logging"
)

const serviceName = "linkguard"

// app carries what every subcommand shares once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCmd creates the root command for the linkguard CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "linkguard",
		Short: "linkguard - chat link validator",
		Long: `linkguard checks the shift-click links players embed in chat messages
against a game data catalog, as a CLI or as an HTTP service.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/linkguard/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newSeedCmd(a))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// setup loads configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.Setup(serviceName, version, cfg.Log.Format, cfg.LogLevel(), cmd.ErrOrStderr())
	slog.SetDefault(a.logger)
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holomush/linkguard/internal/api"
	"github.com/holomush/linkguard/internal/chatlink"
	"github.com/holomush/linkguard/internal/config"
	"github.com/holomush/linkguard/internal/observability"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		Long: `Serves POST /v1/messages:validate, plus metrics and health probes on
the metrics address. SIGHUP reloads the catalog; with --watch the seed file
is also reloaded whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), cmd)
		},
	}
}

func (a *app) runServe(ctx context.Context, cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer src.close()

	obs := observability.NewServer(a.cfg.Metrics.Addr, src.holder.Ready, a.logger)
	metrics := obs.Metrics()
	metrics.SetCatalogStats(src.holder.Load().Stats())
	src.holder.OnReload = func(err error) {
		metrics.RecordReload(err)
		if m := src.holder.Load(); err == nil && m != nil {
			metrics.SetCatalogStats(m.Stats())
		}
	}

	if a.cfg.Catalog.Watch && a.cfg.Catalog.Source == config.SourceSeed {
		if err := src.holder.WatchSeedFile(ctx, a.cfg.Catalog.SeedFile); err != nil {
			return err
		}
		a.logger.Info("watching seed file", "path", a.cfg.Catalog.SeedFile)
	}

	v, err := chatlink.NewValidator(append(a.cfg.ValidatorOptions(), chatlink.WithLogger(a.logger))...)
	if err != nil {
		return err
	}

	apiSrv := api.NewServer(a.cfg.Server.Addr, v, src.holder,
		api.WithLogger(a.logger),
		api.WithMetrics(metrics),
		api.WithMaxMessageBytes(a.cfg.Server.MaxMessageBytes),
		api.WithRateLimit(a.cfg.Server.RateLimit, a.cfg.Server.RateBurst),
	)
	apiErrCh, err := apiSrv.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	if a.cfg.Metrics.Addr != "" {
		obsErrCh, err := obs.Start()
		if err != nil {
			a.stopServers(apiSrv, nil)
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	cmd.Println("linkguard serving on " + apiSrv.Addr())
	a.logger.Info("linkguard ready",
		"addr", apiSrv.Addr(),
		"catalog_source", a.cfg.Catalog.Source,
	)

wait:
	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				if err := src.reload(ctx); err != nil {
					a.logger.Error("catalog reload failed", "error", err)
				}
				continue
			}
			a.logger.Info("received shutdown signal", "signal", sig)
			break wait
		case <-ctx.Done():
			a.logger.Info("context cancelled, shutting down")
			break wait
		}
	}

	a.stopServers(apiSrv, obs)
	a.logger.Info("shutdown complete")
	return nil
}

// stopServers drains the servers within the configured shutdown timeout.
func (a *app) stopServers(apiSrv *api.Server, obs *observability.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiSrv.Stop(ctx); err != nil {
		a.logger.Warn("error stopping api server", "error", err)
	}
	if obs != nil {
		if err := obs.Stop(ctx); err != nil {
			a.logger.Warn("error stopping observability server", "error", err)
		}
	}
}

// monitorServerErrors cancels ctx when a server reports a serve error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/internal/catalog/postgres"
	"github.com/holomush/linkguard/internal/config"
	"github.com/holomush/linkguard/internal/store"
)

// catalogSource loads snapshots from the configured source into a Holder.
type catalogSource struct {
	holder *catalog.Holder
	reload func(ctx context.Context) error
	close  func()
}

// openCatalog loads the first snapshot. The returned source must be closed.
func (a *app) openCatalog(ctx context.Context) (*catalogSource, error) {
	holder := catalog.NewHolder(nil)
	holder.Logger = a.logger
	src := &catalogSource{holder: holder, close: func() {}}

	switch a.cfg.Catalog.Source {
	case config.SourcePostgres:
		pool, err := a.connect(ctx)
		if err != nil {
			return nil, err
		}
		loader := postgres.NewLoader(pool)
		src.close = pool.Close
		src.reload = func(ctx context.Context) error {
			m, err := loader.Load(ctx)
			if err == nil {
				holder.Store(m)
				a.logger.Info("catalog loaded", "source", config.SourcePostgres, "stats", m.Stats())
			}
			if holder.OnReload != nil {
				holder.OnReload(err)
			}
			return err
		}
	default:
		path := a.cfg.Catalog.SeedFile
		src.reload = func(context.Context) error {
			return holder.ReloadSeedFile(path)
		}
	}

	if err := src.reload(ctx); err != nil {
		src.close()
		return nil, err
	}
	return src, nil
}

// connect opens the configured database.
func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if a.cfg.Catalog.DatabaseURL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("database url is required (--database-url or DATABASE_URL)")
	}
	return store.Connect(ctx, a.cfg.Catalog.DatabaseURL, store.WithConnectLogger(a.logger))
}

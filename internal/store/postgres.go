// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store owns the PostgreSQL connection and the catalog schema.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry defaults.
const (
	DefaultConnectAttempts = 5
	DefaultConnectBackoff  = 200 * time.Millisecond
	maxConnectBackoff      = 5 * time.Second
)

type connectConfig struct {
	attempts uint64
	backoff  time.Duration
	logger   *slog.Logger
}

// ConnectOption configures Connect.
type ConnectOption func(*connectConfig)

// WithConnectAttempts sets how many pings are tried before giving up.
func WithConnectAttempts(n uint64) ConnectOption {
	return func(c *connectConfig) {
		c.attempts = n
	}
}

// WithConnectBackoff sets the first retry delay; later delays double.
func WithConnectBackoff(d time.Duration) ConnectOption {
	return func(c *connectConfig) {
		c.backoff = d
	}
}

// WithConnectLogger sets the logger used to report failed attempts.
func WithConnectLogger(logger *slog.Logger) ConnectOption {
	return func(c *connectConfig) {
		c.logger = logger
	}
}

// Connect opens a pgx pool and waits until the database answers a ping.
// Failed pings are retried with exponential backoff so the service can start
// alongside its database.
func Connect(ctx context.Context, databaseURL string, opts ...ConnectOption) (*pgxpool.Pool, error) {
	cfg := connectConfig{
		attempts: DefaultConnectAttempts,
		backoff:  DefaultConnectBackoff,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := waitReady(ctx, pool.Ping, cfg); err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("host", poolCfg.ConnConfig.Host).
			Wrap(err)
	}
	return pool, nil
}

func waitReady(ctx context.Context, ping func(context.Context) error, cfg connectConfig) error {
	attempts := cfg.attempts
	if attempts == 0 {
		attempts = 1
	}
	backoff := retry.WithCappedDuration(maxConnectBackoff, retry.NewExponential(cfg.backoff))
	backoff = retry.WithMaxRetries(attempts-1, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := ping(ctx); err != nil {
			if cfg.logger != nil {
				cfg.logger.Warn("database not ready", "attempt", attempt, "max_attempts", attempts, "error", err)
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

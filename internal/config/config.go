// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads linkguard configuration from defaults, an optional
// YAML file and command-line flags, in that order of precedence.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/linkguard/internal/chatlink"
	"github.com/holomush/linkguard/internal/logging"
	"github.com/holomush/linkguard/internal/xdg"
)

// Catalog sources.
const (
	SourceSeed     = "seed"
	SourcePostgres = "postgres"
)

// Default values.
const (
	DefaultServerAddr      = "127.0.0.1:8080"
	DefaultMetricsAddr     = "127.0.0.1:9100"
	DefaultMaxMessageBytes = 4096
	DefaultRateLimit       = 20.0
	DefaultRateBurst       = 40
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogFormat       = "json"
	DefaultLogLevel        = "info"
)

// Config is the complete linkguard configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Server  ServerConfig  `koanf:"server"`
	Metrics MetricsConfig `koanf:"metrics"`
	Catalog CatalogConfig `koanf:"catalog"`
	Links   LinksConfig   `koanf:"links"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// ServerConfig configures the HTTP validation API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	MaxMessageBytes int64         `koanf:"max_message_bytes"`
	RateLimit       float64       `koanf:"rate_limit"`
	RateBurst       int           `koanf:"rate_burst"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig configures the metrics and health endpoint. An empty
// address disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// CatalogConfig selects where the catalog is loaded from.
type CatalogConfig struct {
	Source      string `koanf:"source"`
	SeedFile    string `koanf:"seed_file"`
	Watch       bool   `koanf:"watch"`
	DatabaseURL string `koanf:"database_url"`
}

// LinksConfig tunes link validation.
type LinksConfig struct {
	MaxItemModifiers int      `koanf:"max_item_modifiers"`
	Disabled         []string `koanf:"disabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			MaxMessageBytes: DefaultMaxMessageBytes,
			RateLimit:       DefaultRateLimit,
			RateBurst:       DefaultRateBurst,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Catalog: CatalogConfig{Source: SourceSeed},
		Links:   LinksConfig{MaxItemModifiers: chatlink.DefaultMaxItemModifiers},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-format":         "log.format",
	"log-level":          "log.level",
	"listen":             "server.addr",
	"max-message-bytes":  "server.max_message_bytes",
	"rate-limit":         "server.rate_limit",
	"rate-burst":         "server.rate_burst",
	"shutdown-timeout":   "server.shutdown_timeout",
	"metrics-addr":       "metrics.addr",
	"catalog-source":     "catalog.source",
	"seed-file":          "catalog.seed_file",
	"watch":              "catalog.watch",
	"database-url":       "catalog.database_url",
	"max-item-modifiers": "links.max_item_modifiers",
	"disable-link-type":  "links.disabled",
}

// Load builds the configuration. path is an optional YAML file; when empty,
// the XDG config file is used if it exists. Only flags that were set on the
// command line override file values. DATABASE_URL fills
// catalog.database_url when nothing else does.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if p, err := xdg.ConfigFile(); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "load config file")
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "decode config")
	}
	if cfg.Catalog.DatabaseURL == "" {
		cfg.Catalog.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Catalog.Source == SourceSeed && cfg.Catalog.SeedFile == "" {
		if p, err := xdg.SeedFile(); err == nil {
			cfg.Catalog.SeedFile = p
		}
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string
	if c.Log.Format != "json" && c.Log.Format != "text" {
		problems = append(problems, "log.format must be 'json' or 'text'")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, "log.level must be one of trace, debug, info, warn, error")
	}
	if c.Server.MaxMessageBytes <= 0 {
		problems = append(problems, "server.max_message_bytes must be positive")
	}
	if c.Server.RateLimit < 0 {
		problems = append(problems, "server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		problems = append(problems, "server.rate_burst must be at least 1 when rate limiting")
	}
	switch c.Catalog.Source {
	case SourceSeed:
		if c.Catalog.SeedFile == "" {
			problems = append(problems, "catalog.seed_file is required for the seed source")
		}
	case SourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			problems = append(problems, "catalog.database_url (or DATABASE_URL) is required for the postgres source")
		}
		if c.Catalog.Watch {
			problems = append(problems, "catalog.watch only applies to the seed source")
		}
	default:
		problems = append(problems, "catalog.source must be 'seed' or 'postgres'")
	}
	if c.Links.MaxItemModifiers < 0 {
		problems = append(problems, "links.max_item_modifiers must not be negative")
	}
	if len(problems) > 0 {
		return oops.Code("CONFIG_INVALID").
			With("problems", problems).
			Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LogLevel returns the parsed log level. Call Validate first.
func (c *Config) LogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// ValidatorOptions converts the links section into validator options.
func (c *Config) ValidatorOptions() []chatlink.ValidatorOption {
	opts := []chatlink.ValidatorOption{chatlink.WithMaxItemModifiers(c.Links.MaxItemModifiers)}
	if len(c.Links.Disabled) > 0 {
		opts = append(opts, chatlink.WithDisabledTypes(c.Links.Disabled...))
	}
	return opts
}

// RegisterFlags adds the flags Load understands to fs. Defaults shown in
// help text match Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (trace, debug, info, warn, error)")
	fs.String("listen", d.Server.Addr, "HTTP API listen address")
	fs.Int64("max-message-bytes", d.Server.MaxMessageBytes, "largest accepted chat message in bytes")
	fs.Float64("rate-limit", d.Server.RateLimit, "requests per second per client (0 disables)")
	fs.Int("rate-burst", d.Server.RateBurst, "request burst per client")
	fs.Duration("shutdown-timeout", d.Server.ShutdownTimeout, "graceful shutdown timeout")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	fs.String("catalog-source", d.Catalog.Source, "catalog source (seed or postgres)")
	fs.String("seed-file", "", "catalog seed file (default: XDG_DATA_HOME/linkguard/catalog.yaml)")
	fs.Bool("watch", false, "reload the seed file when it changes")
	fs.String("database-url", "", "PostgreSQL URL (default: DATABASE_URL)")
	fs.Int("max-item-modifiers", d.Links.MaxItemModifiers, "largest item modifier count and type")
	fs.StringSlice("disable-link-type", nil, "link type glob to reject (repeatable)")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/linkguard/internal/chatlink"
	"github.com/holomush/linkguard/internal/logging"
	"github.com/holomush/linkguard/pkg/errutil"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("DATABASE_URL", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, int64(DefaultMaxMessageBytes), cfg.Server.MaxMessageBytes)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, SourceSeed, cfg.Catalog.Source)
	assert.Equal(t, "/data/linkguard/catalog.yaml", cfg.Catalog.SeedFile)
	assert.Equal(t, chatlink.DefaultMaxItemModifiers, cfg.Links.MaxItemModifiers)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
log:
  level: trace
server:
  addr: 0.0.0.0:9999
  shutdown_timeout: 3s
catalog:
  seed_file: /etc/linkguard/catalog.yaml
  watch: true
links:
  max_item_modifiers: 50
  disabled: [trade, "glyph*"]
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, logging.LevelTrace, cfg.LogLevel())
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/etc/linkguard/catalog.yaml", cfg.Catalog.SeedFile)
	assert.True(t, cfg.Catalog.Watch)
	assert.Equal(t, 50, cfg.Links.MaxItemModifiers)
	assert.Equal(t, []string{"trade", "glyph*"}, cfg.Links.Disabled)
	assert.Len(t, cfg.ValidatorOptions(), 2)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "server:\n  addr: 0.0.0.0:9999\n  rate_burst: 5\n")

	cfg, err := Load(path, newFlags(t, "--listen", "127.0.0.1:1234", "--max-item-modifiers", "10", "--disable-link-type", "talent"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:1234", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.RateBurst, "unchanged flags do not override the file")
	assert.Equal(t, 10, cfg.Links.MaxItemModifiers)
	assert.Equal(t, []string{"talent"}, cfg.Links.Disabled)
}

func TestLoad_XDGConfigFile(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "linkguard")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("metrics:\n  addr: \"\"\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_DatabaseURLFallback(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Load("", newFlags(t, "--catalog-source", "postgres"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.Catalog.DatabaseURL)
	assert.Empty(t, cfg.Catalog.SeedFile)
	require.NoError(t, cfg.Validate())

	cfg, err = Load("", newFlags(t, "--catalog-source", "postgres", "--database-url", "postgres://flag/db"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", cfg.Catalog.DatabaseURL)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")

	_, err = Load(writeConfig(t, "server: [\n"), nil)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"message size", func(c *Config) { c.Server.MaxMessageBytes = 0 }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.Server.RateBurst = 0 }},
		{"seed without file", func(c *Config) { c.Catalog.SeedFile = "" }},
		{"postgres without url", func(c *Config) { c.Catalog.Source = SourcePostgres }},
		{"postgres watch", func(c *Config) {
			c.Catalog.Source = SourcePostgres
			c.Catalog.DatabaseURL = "postgres://x"
			c.Catalog.Watch = true
		}},
		{"unknown source", func(c *Config) { c.Catalog.Source = "redis" }},
		{"negative modifiers", func(c *Config) { c.Links.MaxItemModifiers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Catalog.SeedFile = "/tmp/catalog.yaml"
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			errutil.AssertErrorCode(t, cfg.Validate(), "CONFIG_INVALID")
		})
	}
}

func TestConfig_ValidatorOptionsBuild(t *testing.T) {
	cfg := Default()
	cfg.Links.Disabled = []string{"trade"}

	v, err := chatlink.NewValidator(cfg.ValidatorOptions()...)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

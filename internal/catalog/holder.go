// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"
)

// reloadDebounce groups the burst of events editors produce on save.
const reloadDebounce = 250 * time.Millisecond

// Holder publishes the current catalog snapshot.
// Readers take a snapshot with Load and keep using it for a whole scan, so a
// reload never changes the data under a validation in progress.
type Holder struct {
	current atomic.Pointer[Memory]

	// OnReload, if set, is called after every reload attempt.
	OnReload func(err error)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewHolder creates a Holder. m may be nil until the first Store.
func NewHolder(m *Memory) *Holder {
	h := &Holder{}
	if m != nil {
		h.current.Store(m)
	}
	return h
}

// Load returns the current snapshot, or nil if none has been stored.
func (h *Holder) Load() *Memory {
	return h.current.Load()
}

// Store publishes a new snapshot.
func (h *Holder) Store(m *Memory) {
	h.current.Store(m)
}

func (h *Holder) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Ready reports whether a snapshot is available.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// ReloadSeedFile parses the seed file and publishes it. On failure the
// previous snapshot stays in place.
func (h *Holder) ReloadSeedFile(path string) error {
	seed, err := LoadSeedFile(path)
	if err == nil {
		var m *Memory
		m, err = seed.Build()
		if err == nil {
			h.Store(m)
			h.logger().Info("catalog reloaded", "path", path, "stats", m.Stats())
		}
	}
	if h.OnReload != nil {
		h.OnReload(err)
	}
	return err
}

// WatchSeedFile reloads the seed file whenever it changes, until ctx is done.
// The directory is watched so that atomic renames by editors are picked up.
func (h *Holder) WatchSeedFile(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return oops.With("operation", "create seed watcher").Wrap(err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return oops.With("operation", "resolve seed path").With("path", path).Wrap(err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return oops.With("operation", "watch seed directory").With("path", abs).Wrap(err)
	}

	go func() {
		defer func() { _ = w.Close() }()
		debounce := time.NewTimer(reloadDebounce)
		debounce.Stop()
		for {
			select {
			case <-ctx.Done():
				debounce.Stop()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					debounce.Reset(reloadDebounce)
				}
			case <-debounce.C:
				if err := h.ReloadSeedFile(abs); err != nil {
					h.logger().Error("catalog reload failed", "path", abs, "error", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				h.logger().Error("seed watch error", "error", err)
			}
		}
	}()
	return nil
}

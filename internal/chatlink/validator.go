// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"context"
	"log/slog"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/logging"
	"github.com/holomush/linkguard/pkg/errutil"
)

// Result is the outcome of an accepted message.
type Result struct {
	// Links lists the message's links in the order they appear.
	Links []Link
}

// Validator checks chat messages against a catalog. It holds no per-message
// state and is safe for concurrent use.
type Validator struct {
	logger           *slog.Logger
	maxItemModifiers int
	disabledPatterns []string

	lim limits
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithLogger sets the logger rejections are traced to.
func WithLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithMaxItemModifiers bounds the modifier count and modifier type of item links.
func WithMaxItemModifiers(n int) ValidatorOption {
	return func(v *Validator) {
		v.maxItemModifiers = n
	}
}

// WithDisabledTypes rejects links whose type tag matches any of the glob
// patterns, e.g. "trade" or "*chant".
func WithDisabledTypes(patterns ...string) ValidatorOption {
	return func(v *Validator) {
		v.disabledPatterns = append(v.disabledPatterns, patterns...)
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...ValidatorOption) (*Validator, error) {
	v := &Validator{
		logger:           slog.Default(),
		maxItemModifiers: DefaultMaxItemModifiers,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.maxItemModifiers < 0 {
		return nil, oops.Code("CONFIG_INVALID").
			With("max_item_modifiers", v.maxItemModifiers).
			Errorf("max item modifiers must not be negative")
	}
	v.lim.maxItemModifiers = v.maxItemModifiers
	for _, pattern := range v.disabledPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("pattern", pattern).
				Wrapf(err, "compile disabled link type pattern")
		}
		v.lim.disabled = append(v.lim.disabled, g)
	}
	return v, nil
}

// Validate scans msg and checks every link in it. A nil error means the
// message is accepted. Otherwise the error is an oops error whose code is
// one of Codes, or CodeCatalogUnavailable when repos is incomplete.
func (v *Validator) Validate(ctx context.Context, repos *Repositories, msg string) (*Result, error) {
	if err := repos.check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, oops.Wrapf(err, "validate message")
	}

	start := time.Now()
	e := newExtractor(msg, repos, v.lim)
	err := e.run()
	recordVerdict(e.links, err, time.Since(start))

	if err != nil {
		errutil.LogErrorContext(ctx, v.logger, logging.LevelTrace, "chat message rejected", err,
			"message", msg)
		return nil, err
	}
	return &Result{Links: e.links}, nil
}

// IsValidMessage reports whether msg is accepted.
func (v *Validator) IsValidMessage(ctx context.Context, repos *Repositories, msg string) bool {
	_, err := v.Validate(ctx, repos, msg)
	return err == nil
}

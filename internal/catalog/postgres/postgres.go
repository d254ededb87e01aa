// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres loads catalog snapshots from PostgreSQL and imports seeds
// into it. The schema lives in internal/store.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/holomush/linkguard/internal/catalog"
)

// Querier is the part of *pgxpool.Pool the catalog needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// catalogTables lists every table a snapshot is loaded from, children first.
var catalogTables = []string{
	"quest_locales",
	"items",
	"item_bonus_lists",
	"quests",
	"spells",
	"skill_line_abilities",
	"skill_lines",
	"achievements",
	"talents",
	"glyph_properties",
}

// u32 narrows a stored id. The schema constrains ids to the uint32 range.
func u32(v int64) uint32 {
	return uint32(v) //nolint:gosec // CHECK constraint bounds the column
}

func localized(values []string) catalog.LocalizedString {
	var s catalog.LocalizedString
	copy(s[:], values)
	return s
}

func column(values map[string]string) ([]string, error) {
	s, err := catalog.NewLocalizedString(values)
	if err != nil {
		return nil, err
	}
	return s[:], nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/catalog"
)

// ImportResult describes a completed import.
type ImportResult struct {
	ID         ulid.ULID
	ImportedAt time.Time
	Stats      catalog.Stats
}

// Importer writes seeds into the catalog tables.
type Importer struct {
	db      Querier
	replace bool
	now     func() time.Time
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithReplace empties the catalog tables before inserting.
func WithReplace() ImporterOption {
	return func(i *Importer) {
		i.replace = true
	}
}

// NewImporter creates an Importer.
func NewImporter(db Querier, opts ...ImporterOption) *Importer {
	i := &Importer{db: db, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import inserts every record of seed in one transaction. A record that
// already exists fails the whole import with CATALOG_ALREADY_SEEDED and
// leaves the database unchanged.
func (i *Importer) Import(ctx context.Context, seed *catalog.Seed) (*ImportResult, error) {
	m, err := seed.Build()
	if err != nil {
		return nil, err
	}

	tx, err := i.db.Begin(ctx)
	if err != nil {
		return nil, oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if i.replace {
		if _, err := tx.Exec(ctx, "TRUNCATE "+strings.Join(catalogTables, ", ")); err != nil {
			return nil, oops.Code("CATALOG_IMPORT_FAILED").With("operation", "truncate catalog").Wrap(err)
		}
	}

	if err := insertSeed(ctx, tx, seed); err != nil {
		return nil, importError(err)
	}

	now := i.now().UTC()
	result := &ImportResult{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		ImportedAt: now,
		Stats:      m.Stats(),
	}
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		return nil, oops.Code("CATALOG_IMPORT_FAILED").With("operation", "encode stats").Wrap(err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO catalog_imports (id, format_version, stats, imported_at) VALUES ($1, $2, $3, $4)`,
		result.ID.String(), seed.FormatVersion, stats, result.ImportedAt); err != nil {
		return nil, oops.Code("CATALOG_IMPORT_FAILED").With("operation", "record import").Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, oops.Code("TX_COMMIT_FAILED").Wrap(err)
	}
	return result, nil
}

func importError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("CATALOG_ALREADY_SEEDED").
			With("table", pgErr.TableName).
			With("constraint", pgErr.ConstraintName).
			Wrapf(err, "catalog already contains these records")
	}
	return oops.Code("CATALOG_IMPORT_FAILED").Wrap(err)
}

func insertSeed(ctx context.Context, tx pgx.Tx, seed *catalog.Seed) error {
	for _, it := range seed.Items {
		name, err := column(it.Name)
		if err != nil {
			return err
		}
		var suffix []string
		if len(it.NameSuffix) > 0 {
			if suffix, err = column(it.NameSuffix); err != nil {
				return err
			}
		}
		var flags3 int64
		if it.DisplayAsHeirloom {
			flags3 |= int64(catalog.ItemFlag3DisplayAsHeirloom)
		}
		if it.HideNameSuffix {
			flags3 |= int64(catalog.ItemFlag3HideNameSuffix)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO items (id, quality, flags3, name, name_suffix) VALUES ($1, $2, $3, $4, $5)`,
			int64(it.ID), int16(it.Quality), flags3, name, suffix); err != nil {
			return oops.With("item_id", it.ID).Wrap(err)
		}
	}

	for _, id := range seed.BonusLists {
		if _, err := tx.Exec(ctx, `INSERT INTO item_bonus_lists (id) VALUES ($1)`, id); err != nil {
			return oops.With("bonus_list_id", id).Wrap(err)
		}
	}

	for _, q := range seed.Quests {
		if _, err := tx.Exec(ctx, `INSERT INTO quests (id, log_title) VALUES ($1, $2)`,
			int64(q.ID), q.LogTitle); err != nil {
			return oops.With("quest_id", q.ID).Wrap(err)
		}
		if len(q.Locales) == 0 {
			continue
		}
		titles, err := column(q.Locales)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO quest_locales (quest_id, log_title) VALUES ($1, $2)`,
			int64(q.ID), titles); err != nil {
			return oops.With("quest_id", q.ID).Wrap(err)
		}
	}

	for _, sp := range seed.Spells {
		name, err := column(sp.Name)
		if err != nil {
			return err
		}
		var attributes int64
		if sp.TradeSpell {
			attributes |= int64(catalog.SpellAttr0TradeSpell)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO spells (id, difficulty, attributes, name) VALUES ($1, $2, $3, $4)`,
			int64(sp.ID), int16(sp.Difficulty), attributes, name); err != nil {
			return oops.With("spell_id", sp.ID).Wrap(err)
		}
	}

	for _, sl := range seed.SkillLines {
		name, err := column(sl.DisplayName)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO skill_lines (id, display_name) VALUES ($1, $2)`,
			int64(sl.ID), name); err != nil {
			return oops.With("skill_line_id", sl.ID).Wrap(err)
		}
	}

	for _, a := range seed.SkillLineAbilities {
		if _, err := tx.Exec(ctx,
			`INSERT INTO skill_line_abilities (id, spell_id, skill_line) VALUES ($1, $2, $3)`,
			int64(a.ID), int64(a.SpellID), int64(a.SkillLine)); err != nil {
			return oops.With("skill_line_ability_id", a.ID).Wrap(err)
		}
	}

	for _, a := range seed.Achievements {
		title, err := column(a.Title)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO achievements (id, title) VALUES ($1, $2)`,
			int64(a.ID), title); err != nil {
			return oops.With("achievement_id", a.ID).Wrap(err)
		}
	}

	for _, t := range seed.Talents {
		if _, err := tx.Exec(ctx, `INSERT INTO talents (id, spell_id) VALUES ($1, $2)`,
			int64(t.ID), int64(t.SpellID)); err != nil {
			return oops.With("talent_id", t.ID).Wrap(err)
		}
	}

	for _, g := range seed.Glyphs {
		if _, err := tx.Exec(ctx, `INSERT INTO glyph_properties (id, spell_id) VALUES ($1, $2)`,
			int64(g.ID), int64(g.SpellID)); err != nil {
			return oops.With("glyph_id", g.ID).Wrap(err)
		}
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/catalog"
)

// Loader reads a complete catalog snapshot.
type Loader struct {
	db Querier
}

// NewLoader creates a Loader.
func NewLoader(db Querier) *Loader {
	return &Loader{db: db}
}

// Load reads every catalog table into a new snapshot.
func (l *Loader) Load(ctx context.Context) (*catalog.Memory, error) {
	b := catalog.NewBuilder()

	steps := []struct {
		table string
		query string
		scan  func(pgx.Rows) error
	}{
		{"items", `SELECT id, quality, flags3, name, name_suffix FROM items`, func(rows pgx.Rows) error {
			var (
				id, flags3   int64
				quality      int16
				name, suffix []string
			)
			if err := rows.Scan(&id, &quality, &flags3, &name, &suffix); err != nil {
				return err
			}
			t := catalog.ItemTemplate{
				ID:      u32(id),
				Quality: catalog.ItemQuality(quality), //nolint:gosec // CHECK constraint bounds quality
				Flags3:  uint32(flags3),               //nolint:gosec // flag words are 32 bits
				Name:    localized(name),
			}
			if suffix != nil {
				s := localized(suffix)
				t.NameSuffix = &s
			}
			b.AddItem(t)
			return nil
		}},
		{"item_bonus_lists", `SELECT id FROM item_bonus_lists`, func(rows pgx.Rows) error {
			var id int32
			if err := rows.Scan(&id); err != nil {
				return err
			}
			b.AddBonusList(id)
			return nil
		}},
		{"quests", `SELECT q.id, q.log_title, l.log_title AS locales FROM quests q LEFT JOIN quest_locales l ON l.quest_id = q.id`, func(rows pgx.Rows) error {
			var (
				id      int64
				title   string
				locales []string
			)
			if err := rows.Scan(&id, &title, &locales); err != nil {
				return err
			}
			b.AddQuest(catalog.QuestTemplate{ID: u32(id), LogTitle: title})
			if locales != nil {
				b.AddQuestLocale(catalog.QuestLocale{QuestID: u32(id), LogTitle: locales})
			}
			return nil
		}},
		{"spells", `SELECT id, difficulty, attributes, name FROM spells`, func(rows pgx.Rows) error {
			var (
				id, attributes int64
				difficulty     int16
				name           []string
			)
			if err := rows.Scan(&id, &difficulty, &attributes, &name); err != nil {
				return err
			}
			b.AddSpell(catalog.SpellInfo{
				ID:         u32(id),
				Difficulty: catalog.Difficulty(difficulty), //nolint:gosec // small enum
				Attributes: uint32(attributes),             //nolint:gosec // attribute words are 32 bits
				Name:       localized(name),
			})
			return nil
		}},
		{"skill_lines", `SELECT id, display_name FROM skill_lines`, func(rows pgx.Rows) error {
			var (
				id   int64
				name []string
			)
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			b.AddSkillLine(catalog.SkillLine{ID: u32(id), DisplayName: localized(name)})
			return nil
		}},
		{"skill_line_abilities", `SELECT id, spell_id, skill_line FROM skill_line_abilities`, func(rows pgx.Rows) error {
			var id, spellID, skillLine int64
			if err := rows.Scan(&id, &spellID, &skillLine); err != nil {
				return err
			}
			b.AddSkillLineAbility(catalog.SkillLineAbility{ID: u32(id), SpellID: u32(spellID), SkillLine: u32(skillLine)})
			return nil
		}},
		{"achievements", `SELECT id, title FROM achievements`, func(rows pgx.Rows) error {
			var (
				id    int64
				title []string
			)
			if err := rows.Scan(&id, &title); err != nil {
				return err
			}
			b.AddAchievement(catalog.Achievement{ID: u32(id), Title: localized(title)})
			return nil
		}},
		{"talents", `SELECT id, spell_id FROM talents`, func(rows pgx.Rows) error {
			var id, spellID int64
			if err := rows.Scan(&id, &spellID); err != nil {
				return err
			}
			b.AddTalent(catalog.Talent{ID: u32(id), SpellID: u32(spellID)})
			return nil
		}},
		{"glyph_properties", `SELECT id, spell_id FROM glyph_properties`, func(rows pgx.Rows) error {
			var id, spellID int64
			if err := rows.Scan(&id, &spellID); err != nil {
				return err
			}
			b.AddGlyph(catalog.GlyphProperties{ID: u32(id), SpellID: u32(spellID)})
			return nil
		}},
	}

	for _, step := range steps {
		if err := l.collect(ctx, step.query, step.scan); err != nil {
			return nil, oops.Code("CATALOG_LOAD_FAILED").With("table", step.table).Wrap(err)
		}
	}
	return b.Build(), nil
}

func (l *Loader) collect(ctx context.Context, query string, scan func(pgx.Rows) error) error {
	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

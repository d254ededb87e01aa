// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/catalog"
)

// ItemRepository resolves item templates and bonus lists.
type ItemRepository interface {
	ItemTemplate(id uint32) (*catalog.ItemTemplate, bool)
	ItemBonusList(id int32) (*catalog.ItemBonusList, bool)
}

// QuestRepository resolves quests and their translations.
type QuestRepository interface {
	QuestTemplate(id uint32) (*catalog.QuestTemplate, bool)
	QuestLocale(id uint32) (*catalog.QuestLocale, bool)
}

// SpellRepository resolves spells and the skill lines that teach them.
type SpellRepository interface {
	SpellInfo(id uint32, difficulty catalog.Difficulty) (*catalog.SpellInfo, bool)
	SkillLineAbilities(spellID uint32) []*catalog.SkillLineAbility
	SkillLine(id uint32) (*catalog.SkillLine, bool)
}

// AchievementRepository resolves achievements.
type AchievementRepository interface {
	Achievement(id uint32) (*catalog.Achievement, bool)
}

// TalentRepository resolves talents.
type TalentRepository interface {
	Talent(id uint32) (*catalog.Talent, bool)
}

// GlyphRepository resolves glyph properties.
type GlyphRepository interface {
	GlyphProperties(id uint32) (*catalog.GlyphProperties, bool)
}

// Repositories bundles the read-only lookups a scan needs. The repositories
// must not change while a scan runs.
type Repositories struct {
	Items        ItemRepository
	Quests       QuestRepository
	Spells       SpellRepository
	Achievements AchievementRepository
	Talents      TalentRepository
	Glyphs       GlyphRepository
}

// Catalog is implemented by stores that serve every repository, such as
// *catalog.Memory.
type Catalog interface {
	ItemRepository
	QuestRepository
	SpellRepository
	AchievementRepository
	TalentRepository
	GlyphRepository
}

// RepositoriesFrom uses one catalog for every repository.
func RepositoriesFrom(c Catalog) *Repositories {
	return &Repositories{
		Items:        c,
		Quests:       c,
		Spells:       c,
		Achievements: c,
		Talents:      c,
		Glyphs:       c,
	}
}

func (r *Repositories) check() error {
	if r == nil {
		return oops.Code(CodeCatalogUnavailable).Errorf("no repositories configured")
	}
	missing := make([]string, 0)
	if r.Items == nil {
		missing = append(missing, "items")
	}
	if r.Quests == nil {
		missing = append(missing, "quests")
	}
	if r.Spells == nil {
		missing = append(missing, "spells")
	}
	if r.Achievements == nil {
		missing = append(missing, "achievements")
	}
	if r.Talents == nil {
		missing = append(missing, "talents")
	}
	if r.Glyphs == nil {
		missing = append(missing, "glyphs")
	}
	if len(missing) > 0 {
		return oops.Code(CodeCatalogUnavailable).
			With("missing", missing).
			Errorf("repositories not configured: %v", missing)
	}
	return nil
}

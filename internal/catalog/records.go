// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package catalog holds the read-only game data that chat links refer to:
// item templates, quests, spells, achievements, talents, glyphs, item bonus
// lists and skill lines. A Memory snapshot is immutable once built and may
// be shared by any number of concurrent readers.
package catalog

// ItemQuality is the rarity of an item template.
type ItemQuality uint8

// Item qualities in client order.
const (
	QualityPoor ItemQuality = iota
	QualityNormal
	QualityUncommon
	QualityRare
	QualityEpic
	QualityLegendary
	QualityArtifact
	QualityHeirloom
	QualityWowToken

	// MaxItemQuality is the number of qualities.
	MaxItemQuality
)

// Item flag bits (third flags word).
const (
	ItemFlag3DisplayAsHeirloom uint32 = 0x00040000
	ItemFlag3HideNameSuffix    uint32 = 0x00100000
)

// Spell attribute bits (first attributes word).
const (
	SpellAttr0TradeSpell uint32 = 0x00000020
)

// Difficulty selects a spell variant. Chat links always use DifficultyNone.
type Difficulty uint8

// DifficultyNone is the base spell variant.
const DifficultyNone Difficulty = 0

// ItemTemplate describes an item.
type ItemTemplate struct {
	ID         uint32
	Quality    ItemQuality
	Flags3     uint32
	Name       LocalizedString
	NameSuffix *LocalizedString
}

// HasFlag3 reports whether every bit in flag is set.
func (t *ItemTemplate) HasFlag3(flag uint32) bool {
	return t.Flags3&flag == flag
}

// ItemBonusList is an entry of the bonus list catalog.
type ItemBonusList struct {
	ID int32
}

// QuestTemplate describes a quest.
type QuestTemplate struct {
	ID       uint32
	LogTitle string
}

// QuestLocale carries translated quest log titles.
type QuestLocale struct {
	QuestID  uint32
	LogTitle []string
}

// SpellInfo describes a spell.
type SpellInfo struct {
	ID         uint32
	Difficulty Difficulty
	Attributes uint32
	Name       LocalizedString
}

// HasAttribute reports whether every bit in attr is set.
func (s *SpellInfo) HasAttribute(attr uint32) bool {
	return s.Attributes&attr == attr
}

// SkillLineAbility ties a spell to the skill line that teaches it.
type SkillLineAbility struct {
	ID        uint32
	SpellID   uint32
	SkillLine uint32
}

// SkillLine is a profession or weapon skill.
type SkillLine struct {
	ID          uint32
	DisplayName LocalizedString
}

// Achievement describes an achievement.
type Achievement struct {
	ID    uint32
	Title LocalizedString
}

// Talent describes a talent and the spell it grants.
type Talent struct {
	ID      uint32
	SpellID uint32
}

// GlyphProperties describes a glyph and the spell it applies.
type GlyphProperties struct {
	ID      uint32
	SpellID uint32
}

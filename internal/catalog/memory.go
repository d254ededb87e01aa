// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package catalog

import (
	"sort"
)

type spellKey struct {
	id         uint32
	difficulty Difficulty
}

// Memory is an immutable, fully loaded catalog snapshot.
// All lookups are safe for concurrent use.
type Memory struct {
	items           map[uint32]*ItemTemplate
	bonusLists      map[int32]*ItemBonusList
	quests          map[uint32]*QuestTemplate
	questLocales    map[uint32]*QuestLocale
	spells          map[spellKey]*SpellInfo
	skillAbilities  map[uint32][]*SkillLineAbility
	skillLines      map[uint32]*SkillLine
	achievements    map[uint32]*Achievement
	talents         map[uint32]*Talent
	glyphProperties map[uint32]*GlyphProperties
}

// ItemTemplate returns the item template with the given id.
func (m *Memory) ItemTemplate(id uint32) (*ItemTemplate, bool) {
	t, ok := m.items[id]
	return t, ok
}

// ItemBonusList returns the bonus list with the given id.
func (m *Memory) ItemBonusList(id int32) (*ItemBonusList, bool) {
	b, ok := m.bonusLists[id]
	return b, ok
}

// QuestTemplate returns the quest with the given id.
func (m *Memory) QuestTemplate(id uint32) (*QuestTemplate, bool) {
	q, ok := m.quests[id]
	return q, ok
}

// QuestLocale returns the translated titles of a quest.
func (m *Memory) QuestLocale(id uint32) (*QuestLocale, bool) {
	q, ok := m.questLocales[id]
	return q, ok
}

// SpellInfo returns the spell variant with the given id and difficulty.
func (m *Memory) SpellInfo(id uint32, difficulty Difficulty) (*SpellInfo, bool) {
	s, ok := m.spells[spellKey{id: id, difficulty: difficulty}]
	return s, ok
}

// SkillLineAbilities returns the abilities that teach a spell, ordered by ability id.
func (m *Memory) SkillLineAbilities(spellID uint32) []*SkillLineAbility {
	return m.skillAbilities[spellID]
}

// SkillLine returns the skill line with the given id.
func (m *Memory) SkillLine(id uint32) (*SkillLine, bool) {
	s, ok := m.skillLines[id]
	return s, ok
}

// Achievement returns the achievement with the given id.
func (m *Memory) Achievement(id uint32) (*Achievement, bool) {
	a, ok := m.achievements[id]
	return a, ok
}

// Talent returns the talent with the given id.
func (m *Memory) Talent(id uint32) (*Talent, bool) {
	t, ok := m.talents[id]
	return t, ok
}

// GlyphProperties returns the glyph with the given id.
func (m *Memory) GlyphProperties(id uint32) (*GlyphProperties, bool) {
	g, ok := m.glyphProperties[id]
	return g, ok
}

// Stats counts the records of each kind.
type Stats struct {
	Items              int `json:"items"`
	BonusLists         int `json:"bonus_lists"`
	Quests             int `json:"quests"`
	Spells             int `json:"spells"`
	SkillLines         int `json:"skill_lines"`
	SkillLineAbilities int `json:"skill_line_abilities"`
	Achievements       int `json:"achievements"`
	Talents            int `json:"talents"`
	Glyphs             int `json:"glyphs"`
}

// Stats returns record counts for logging.
func (m *Memory) Stats() Stats {
	abilities := 0
	for _, list := range m.skillAbilities {
		abilities += len(list)
	}
	return Stats{
		Items:              len(m.items),
		BonusLists:         len(m.bonusLists),
		Quests:             len(m.quests),
		Spells:             len(m.spells),
		SkillLines:         len(m.skillLines),
		SkillLineAbilities: abilities,
		Achievements:       len(m.achievements),
		Talents:            len(m.talents),
		Glyphs:             len(m.glyphProperties),
	}
}

// Builder accumulates records for a Memory snapshot.
// A Builder is not safe for concurrent use; the Memory it builds is.
type Builder struct {
	m *Memory
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{m: &Memory{
		items:           make(map[uint32]*ItemTemplate),
		bonusLists:      make(map[int32]*ItemBonusList),
		quests:          make(map[uint32]*QuestTemplate),
		questLocales:    make(map[uint32]*QuestLocale),
		spells:          make(map[spellKey]*SpellInfo),
		skillAbilities:  make(map[uint32][]*SkillLineAbility),
		skillLines:      make(map[uint32]*SkillLine),
		achievements:    make(map[uint32]*Achievement),
		talents:         make(map[uint32]*Talent),
		glyphProperties: make(map[uint32]*GlyphProperties),
	}}
}

// AddItem adds or replaces an item template.
func (b *Builder) AddItem(t ItemTemplate) *Builder {
	b.m.items[t.ID] = &t
	return b
}

// AddBonusList adds a bonus list id.
func (b *Builder) AddBonusList(id int32) *Builder {
	b.m.bonusLists[id] = &ItemBonusList{ID: id}
	return b
}

// AddQuest adds or replaces a quest template.
func (b *Builder) AddQuest(q QuestTemplate) *Builder {
	b.m.quests[q.ID] = &q
	return b
}

// AddQuestLocale adds or replaces the translated titles of a quest.
func (b *Builder) AddQuestLocale(l QuestLocale) *Builder {
	b.m.questLocales[l.QuestID] = &l
	return b
}

// AddSpell adds or replaces a spell variant.
func (b *Builder) AddSpell(s SpellInfo) *Builder {
	b.m.spells[spellKey{id: s.ID, difficulty: s.Difficulty}] = &s
	return b
}

// AddSkillLineAbility adds a spell to skill line mapping.
func (b *Builder) AddSkillLineAbility(a SkillLineAbility) *Builder {
	list := append(b.m.skillAbilities[a.SpellID], &a)
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	b.m.skillAbilities[a.SpellID] = list
	return b
}

// AddSkillLine adds or replaces a skill line.
func (b *Builder) AddSkillLine(s SkillLine) *Builder {
	b.m.skillLines[s.ID] = &s
	return b
}

// AddAchievement adds or replaces an achievement.
func (b *Builder) AddAchievement(a Achievement) *Builder {
	b.m.achievements[a.ID] = &a
	return b
}

// AddTalent adds or replaces a talent.
func (b *Builder) AddTalent(t Talent) *Builder {
	b.m.talents[t.ID] = &t
	return b
}

// AddGlyph adds or replaces a glyph.
func (b *Builder) AddGlyph(g GlyphProperties) *Builder {
	b.m.glyphProperties[g.ID] = &g
	return b
}

// Build returns the snapshot. The Builder must not be used afterwards.
func (b *Builder) Build() *Memory {
	m := b.m
	b.m = nil
	return m
}

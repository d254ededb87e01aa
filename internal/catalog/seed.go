// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package catalog

import (
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SupportedFormat is the semver constraint a seed's format_version must satisfy.
const SupportedFormat = "^1.0.0"

// Seed is the YAML document that describes a catalog.
type Seed struct {
	FormatVersion      string                 `yaml:"format_version" json:"format_version" jsonschema:"required,description=Seed format version (semver)"`
	Items              []SeedItem             `yaml:"items,omitempty" json:"items,omitempty"`
	BonusLists         []int32                `yaml:"bonus_lists,omitempty" json:"bonus_lists,omitempty"`
	Quests             []SeedQuest            `yaml:"quests,omitempty" json:"quests,omitempty"`
	Spells             []SeedSpell            `yaml:"spells,omitempty" json:"spells,omitempty"`
	SkillLines         []SeedSkillLine        `yaml:"skill_lines,omitempty" json:"skill_lines,omitempty"`
	SkillLineAbilities []SeedSkillLineAbility `yaml:"skill_line_abilities,omitempty" json:"skill_line_abilities,omitempty"`
	Achievements       []SeedAchievement      `yaml:"achievements,omitempty" json:"achievements,omitempty"`
	Talents            []SeedTalent           `yaml:"talents,omitempty" json:"talents,omitempty"`
	Glyphs             []SeedGlyph            `yaml:"glyphs,omitempty" json:"glyphs,omitempty"`
}

// SeedItem is an item template in a seed.
type SeedItem struct {
	ID                uint32            `yaml:"id" json:"id" jsonschema:"required"`
	Quality           uint8             `yaml:"quality" json:"quality" jsonschema:"minimum=0,maximum=8"`
	DisplayAsHeirloom bool              `yaml:"display_as_heirloom,omitempty" json:"display_as_heirloom,omitempty"`
	HideNameSuffix    bool              `yaml:"hide_name_suffix,omitempty" json:"hide_name_suffix,omitempty"`
	Name              map[string]string `yaml:"name" json:"name" jsonschema:"required"`
	NameSuffix        map[string]string `yaml:"name_suffix,omitempty" json:"name_suffix,omitempty"`
}

// SeedQuest is a quest template in a seed.
type SeedQuest struct {
	ID       uint32            `yaml:"id" json:"id" jsonschema:"required"`
	LogTitle string            `yaml:"log_title" json:"log_title" jsonschema:"required"`
	Locales  map[string]string `yaml:"locales,omitempty" json:"locales,omitempty"`
}

// SeedSpell is a spell in a seed.
type SeedSpell struct {
	ID         uint32            `yaml:"id" json:"id" jsonschema:"required"`
	Difficulty uint8             `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	TradeSpell bool              `yaml:"trade_spell,omitempty" json:"trade_spell,omitempty"`
	Name       map[string]string `yaml:"name" json:"name" jsonschema:"required"`
}

// SeedSkillLine is a skill line in a seed.
type SeedSkillLine struct {
	ID          uint32            `yaml:"id" json:"id" jsonschema:"required"`
	DisplayName map[string]string `yaml:"display_name" json:"display_name" jsonschema:"required"`
}

// SeedSkillLineAbility links a spell to a skill line.
type SeedSkillLineAbility struct {
	ID        uint32 `yaml:"id" json:"id" jsonschema:"required"`
	SpellID   uint32 `yaml:"spell_id" json:"spell_id" jsonschema:"required"`
	SkillLine uint32 `yaml:"skill_line" json:"skill_line" jsonschema:"required"`
}

// SeedAchievement is an achievement in a seed.
type SeedAchievement struct {
	ID    uint32            `yaml:"id" json:"id" jsonschema:"required"`
	Title map[string]string `yaml:"title" json:"title" jsonschema:"required"`
}

// SeedTalent is a talent in a seed.
type SeedTalent struct {
	ID      uint32 `yaml:"id" json:"id" jsonschema:"required"`
	SpellID uint32 `yaml:"spell_id" json:"spell_id" jsonschema:"required"`
}

// SeedGlyph is a glyph in a seed.
type SeedGlyph struct {
	ID      uint32 `yaml:"id" json:"id" jsonschema:"required"`
	SpellID uint32 `yaml:"spell_id" json:"spell_id" jsonschema:"required"`
}

// ParseSeed validates raw YAML against the seed schema and decodes it.
func ParseSeed(data []byte) (*Seed, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code("SEED_INVALID").Wrap(err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, oops.Code("SEED_INVALID").With("operation", "decode seed").Wrap(err)
	}

	if err := checkFormatVersion(seed.FormatVersion); err != nil {
		return nil, err
	}
	return &seed, nil
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return seed, nil
}

func checkFormatVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return oops.Code("SEED_INVALID").With("format_version", v).Wrapf(err, "parse format_version")
	}
	constraint, err := semver.NewConstraint(SupportedFormat)
	if err != nil {
		return oops.Code("SEED_INVALID").Wrapf(err, "parse supported format constraint")
	}
	if !constraint.Check(version) {
		return oops.Code("SEED_UNSUPPORTED_FORMAT").
			With("format_version", v).
			With("supported", SupportedFormat).
			Errorf("seed format %s is not supported", v)
	}
	return nil
}

// Build converts the seed into an immutable snapshot.
func (s *Seed) Build() (*Memory, error) {
	b := NewBuilder()

	for _, it := range s.Items {
		name, err := NewLocalizedString(it.Name)
		if err != nil {
			return nil, oops.With("item_id", it.ID).Wrap(err)
		}
		tmpl := ItemTemplate{ID: it.ID, Quality: ItemQuality(it.Quality), Name: name}
		if tmpl.Quality >= MaxItemQuality {
			return nil, oops.Code("SEED_INVALID").With("item_id", it.ID).Errorf("item quality %d out of range", it.Quality)
		}
		if it.DisplayAsHeirloom {
			tmpl.Flags3 |= ItemFlag3DisplayAsHeirloom
		}
		if it.HideNameSuffix {
			tmpl.Flags3 |= ItemFlag3HideNameSuffix
		}
		if len(it.NameSuffix) > 0 {
			suffix, err := NewLocalizedString(it.NameSuffix)
			if err != nil {
				return nil, oops.With("item_id", it.ID).Wrap(err)
			}
			tmpl.NameSuffix = &suffix
		}
		b.AddItem(tmpl)
	}

	for _, id := range s.BonusLists {
		b.AddBonusList(id)
	}

	for _, q := range s.Quests {
		b.AddQuest(QuestTemplate{ID: q.ID, LogTitle: q.LogTitle})
		if len(q.Locales) == 0 {
			continue
		}
		titles, err := NewLocalizedString(q.Locales)
		if err != nil {
			return nil, oops.With("quest_id", q.ID).Wrap(err)
		}
		b.AddQuestLocale(QuestLocale{QuestID: q.ID, LogTitle: titles[:]})
	}

	for _, sp := range s.Spells {
		name, err := NewLocalizedString(sp.Name)
		if err != nil {
			return nil, oops.With("spell_id", sp.ID).Wrap(err)
		}
		info := SpellInfo{ID: sp.ID, Difficulty: Difficulty(sp.Difficulty), Name: name}
		if sp.TradeSpell {
			info.Attributes |= SpellAttr0TradeSpell
		}
		b.AddSpell(info)
	}

	for _, sl := range s.SkillLines {
		name, err := NewLocalizedString(sl.DisplayName)
		if err != nil {
			return nil, oops.With("skill_line_id", sl.ID).Wrap(err)
		}
		b.AddSkillLine(SkillLine{ID: sl.ID, DisplayName: name})
	}

	for _, a := range s.SkillLineAbilities {
		b.AddSkillLineAbility(SkillLineAbility(a))
	}

	for _, a := range s.Achievements {
		title, err := NewLocalizedString(a.Title)
		if err != nil {
			return nil, oops.With("achievement_id", a.ID).Wrap(err)
		}
		b.AddAchievement(Achievement{ID: a.ID, Title: title})
	}

	for _, t := range s.Talents {
		b.AddTalent(Talent(t))
	}
	for _, g := range s.Glyphs {
		b.AddGlyph(GlyphProperties(g))
	}

	return b.Build(), nil
}

// SeedFromMemory renders a snapshot back into seed form, ordered by id.
// It is used to export a database catalog to YAML.
func SeedFromMemory(m *Memory) *Seed {
	s := &Seed{FormatVersion: "1.0.0"}

	for _, t := range m.items {
		it := SeedItem{
			ID:                t.ID,
			Quality:           uint8(t.Quality),
			DisplayAsHeirloom: t.HasFlag3(ItemFlag3DisplayAsHeirloom),
			HideNameSuffix:    t.HasFlag3(ItemFlag3HideNameSuffix),
			Name:              t.Name.Map(),
		}
		if t.NameSuffix != nil {
			it.NameSuffix = t.NameSuffix.Map()
		}
		s.Items = append(s.Items, it)
	}
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].ID < s.Items[j].ID })

	for id := range m.bonusLists {
		s.BonusLists = append(s.BonusLists, id)
	}
	sort.Slice(s.BonusLists, func(i, j int) bool { return s.BonusLists[i] < s.BonusLists[j] })

	for _, q := range m.quests {
		sq := SeedQuest{ID: q.ID, LogTitle: q.LogTitle}
		if loc, ok := m.questLocales[q.ID]; ok {
			var titles LocalizedString
			copy(titles[:], loc.LogTitle)
			if mm := titles.Map(); len(mm) > 0 {
				sq.Locales = mm
			}
		}
		s.Quests = append(s.Quests, sq)
	}
	sort.Slice(s.Quests, func(i, j int) bool { return s.Quests[i].ID < s.Quests[j].ID })

	for _, sp := range m.spells {
		s.Spells = append(s.Spells, SeedSpell{
			ID:         sp.ID,
			Difficulty: uint8(sp.Difficulty),
			TradeSpell: sp.HasAttribute(SpellAttr0TradeSpell),
			Name:       sp.Name.Map(),
		})
	}
	sort.Slice(s.Spells, func(i, j int) bool {
		if s.Spells[i].ID != s.Spells[j].ID {
			return s.Spells[i].ID < s.Spells[j].ID
		}
		return s.Spells[i].Difficulty < s.Spells[j].Difficulty
	})

	for _, sl := range m.skillLines {
		s.SkillLines = append(s.SkillLines, SeedSkillLine{ID: sl.ID, DisplayName: sl.DisplayName.Map()})
	}
	sort.Slice(s.SkillLines, func(i, j int) bool { return s.SkillLines[i].ID < s.SkillLines[j].ID })

	for _, list := range m.skillAbilities {
		for _, a := range list {
			s.SkillLineAbilities = append(s.SkillLineAbilities, SeedSkillLineAbility(*a))
		}
	}
	sort.Slice(s.SkillLineAbilities, func(i, j int) bool { return s.SkillLineAbilities[i].ID < s.SkillLineAbilities[j].ID })

	for _, a := range m.achievements {
		s.Achievements = append(s.Achievements, SeedAchievement{ID: a.ID, Title: a.Title.Map()})
	}
	sort.Slice(s.Achievements, func(i, j int) bool { return s.Achievements[i].ID < s.Achievements[j].ID })

	for _, t := range m.talents {
		s.Talents = append(s.Talents, SeedTalent(*t))
	}
	sort.Slice(s.Talents, func(i, j int) bool { return s.Talents[i].ID < s.Talents[j].ID })

	for _, g := range m.glyphProperties {
		s.Glyphs = append(s.Glyphs, SeedGlyph(*g))
	}
	sort.Slice(s.Glyphs, func(i, j int) bool { return s.Glyphs[i].ID < s.Glyphs[j].ID })

	return s
}

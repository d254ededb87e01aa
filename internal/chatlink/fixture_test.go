// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holomush/linkguard/internal/catalog"
)

// Well-formed links against testCatalog.
const (
	spellCommand       = "|cff71d5ff|Hspell:21563|h[Command]|h|r"
	itemEdict          = "|cffa335ee|Hitem:124382:0:0:0:0:0:0:0:0:0:0:0:4:42:562:565:567|h[Edict of Argus]|h|r"
	questWoundedKing   = "|cffffff00|Hquest:51101:-1:110:120:5|h[The Wounded King]|h|r"
	achievementDeposit = "|cffffff00|Hachievement:546:0000000000000001:0:0:0:-1:0:0:0:0|h[Safe Deposit]|h|r"
	tradeEngineering   = "|cffffd000|Htrade:4037:1:150:1:6AAAAAAAAAAAAAAAAAAAAAAOAADAAAAAAAAAAAAAAAAIAAAAAAAAA|h[Engineering]|h|r"
	talentTaste        = "|cff4e96f7|Htalent:2232:-1|h[Taste for Blood]|h|r"
	enchantDynamite    = "|cffffd000|Henchant:3919|h[Engineering: Rough Dynamite]|h|r"
	glyphBladestorm    = "|cff66bbff|Hglyph:21:762|h[Glyph of Bladestorm]|h|r"
)

func localized(t *testing.T, values map[string]string) catalog.LocalizedString {
	t.Helper()
	s, err := catalog.NewLocalizedString(values)
	require.NoError(t, err)
	return s
}

func testCatalog(t *testing.T) *catalog.Memory {
	t.Helper()
	suffix := localized(t, map[string]string{"enUS": "of the Monkey", "deDE": "des Affen"})
	stealth := catalog.English("of Stealth")

	return catalog.NewBuilder().
		AddItem(catalog.ItemTemplate{
			ID:      124382,
			Quality: catalog.QualityEpic,
			Name:    localized(t, map[string]string{"enUS": "Edict of Argus", "frFR": "Édit d'Argus"}),
		}).
		AddItem(catalog.ItemTemplate{
			ID:         2,
			Quality:    catalog.QualityRare,
			Flags3:     catalog.ItemFlag3DisplayAsHeirloom,
			Name:       localized(t, map[string]string{"enUS": "Polished Spaulders", "deDE": "Polierte Schiftung"}),
			NameSuffix: &suffix,
		}).
		AddItem(catalog.ItemTemplate{
			ID:         3,
			Quality:    catalog.QualityUncommon,
			Flags3:     catalog.ItemFlag3HideNameSuffix,
			Name:       catalog.English("Hidden Blade"),
			NameSuffix: &stealth,
		}).
		AddBonusList(42).
		AddBonusList(562).
		AddBonusList(565).
		AddBonusList(567).
		AddQuest(catalog.QuestTemplate{ID: 51101, LogTitle: "The Wounded King"}).
		AddQuestLocale(catalog.QuestLocale{QuestID: 51101, LogTitle: []string{"", "Le Roi blessé"}}).
		AddSpell(catalog.SpellInfo{ID: 21563, Name: localized(t, map[string]string{"enUS": "Command", "frFR": "Commandement"})}).
		AddSpell(catalog.SpellInfo{ID: 4037, Name: catalog.English("Engineering")}).
		AddSpell(catalog.SpellInfo{ID: 3919, Attributes: catalog.SpellAttr0TradeSpell, Name: catalog.English("Rough Dynamite")}).
		AddSpell(catalog.SpellInfo{ID: 9999, Attributes: catalog.SpellAttr0TradeSpell, Name: catalog.English("Orphan Recipe")}).
		AddSpell(catalog.SpellInfo{ID: 56636, Name: catalog.English("Taste for Blood")}).
		AddSpell(catalog.SpellInfo{ID: 58096, Name: catalog.English("Glyph of Bladestorm")}).
		AddSkillLine(catalog.SkillLine{ID: 202, DisplayName: localized(t, map[string]string{"enUS": "Engineering", "deDE": "Ingenieurskunst"})}).
		AddSkillLineAbility(catalog.SkillLineAbility{ID: 1, SpellID: 3919, SkillLine: 202}).
		AddAchievement(catalog.Achievement{ID: 546, Title: catalog.English("Safe Deposit")}).
		AddTalent(catalog.Talent{ID: 2232, SpellID: 56636}).
		AddTalent(catalog.Talent{ID: 7, SpellID: 1}).
		AddGlyph(catalog.GlyphProperties{ID: 762, SpellID: 58096}).
		AddGlyph(catalog.GlyphProperties{ID: 8, SpellID: 1}).
		Build()
}

func testRepos(t *testing.T) *Repositories {
	t.Helper()
	return RepositoriesFrom(testCatalog(t))
}

func newTestValidator(t *testing.T, opts ...ValidatorOption) *Validator {
	t.Helper()
	v, err := NewValidator(opts...)
	require.NoError(t, err)
	return v
}

// validate runs one message through a default validator.
func validate(t *testing.T, msg string) (*Result, error) {
	t.Helper()
	//nolint:wrapcheck // test helper
	return newTestValidator(t).Validate(context.Background(), testRepos(t), msg)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/pkg/errutil"
)

func expectCatalogRows(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`FROM items`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "quality", "flags3", "name", "name_suffix"}).
			AddRow(int64(124382), int16(catalog.QualityEpic), int64(0), en("Edict of Argus"), []string(nil)).
			AddRow(int64(2), int16(catalog.QualityRare), int64(catalog.ItemFlag3DisplayAsHeirloom),
				en("Band"), slots(map[string]string{"enUS": "of the Monkey", "deDE": "des Affen"})))
	mock.ExpectQuery(`FROM item_bonus_lists`).WillReturnRows(
		pgxmock.NewRows([]string{"id"}).AddRow(int32(42)).AddRow(int32(562)))
	mock.ExpectQuery(`FROM quests`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "log_title", "locales"}).
			AddRow(int64(51101), "The Wounded King", slots(map[string]string{"frFR": "Le roi blessé"})).
			AddRow(int64(7), "Untranslated", []string(nil)))
	mock.ExpectQuery(`FROM spells`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "difficulty", "attributes", "name"}).
			AddRow(int64(3919), int16(0), int64(catalog.SpellAttr0TradeSpell), en("Rough Dynamite")).
			AddRow(int64(56636), int16(0), int64(0), en("Taste for Blood")))
	mock.ExpectQuery(`FROM skill_lines`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "display_name"}).AddRow(int64(202), en("Engineering")))
	mock.ExpectQuery(`FROM skill_line_abilities`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "spell_id", "skill_line"}).AddRow(int64(1), int64(3919), int64(202)))
	mock.ExpectQuery(`FROM achievements`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "title"}).AddRow(int64(546), en("Safe Deposit")))
	mock.ExpectQuery(`FROM talents`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "spell_id"}).AddRow(int64(2232), int64(56636)))
	mock.ExpectQuery(`FROM glyph_properties`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "spell_id"}).AddRow(int64(762), int64(56636)))
}

func TestLoader_Load(t *testing.T) {
	mock := newMock(t)
	expectCatalogRows(mock)

	m, err := NewLoader(mock).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, catalog.Stats{
		Items:              2,
		BonusLists:         2,
		Quests:             2,
		Spells:             2,
		SkillLines:         1,
		SkillLineAbilities: 1,
		Achievements:       1,
		Talents:            1,
		Glyphs:             1,
	}, m.Stats())

	item, ok := m.ItemTemplate(2)
	require.True(t, ok)
	assert.Equal(t, catalog.QualityRare, item.Quality)
	assert.True(t, item.HasFlag3(catalog.ItemFlag3DisplayAsHeirloom))
	require.NotNil(t, item.NameSuffix)
	assert.Equal(t, "des Affen", item.NameSuffix.Get(catalog.LocaleDeDE))

	edict, ok := m.ItemTemplate(124382)
	require.True(t, ok)
	assert.Nil(t, edict.NameSuffix)

	locale, ok := m.QuestLocale(51101)
	require.True(t, ok)
	assert.Equal(t, "Le roi blessé", locale.LogTitle[catalog.LocaleFrFR])
	_, ok = m.QuestLocale(7)
	assert.False(t, ok, "quest without translations has no locale record")

	spell, ok := m.SpellInfo(3919, catalog.DifficultyNone)
	require.True(t, ok)
	assert.True(t, spell.HasAttribute(catalog.SpellAttr0TradeSpell))

	abilities := m.SkillLineAbilities(3919)
	require.Len(t, abilities, 1)
	assert.Equal(t, uint32(202), abilities[0].SkillLine)

	talent, ok := m.Talent(2232)
	require.True(t, ok)
	assert.Equal(t, uint32(56636), talent.SpellID)
}

func TestLoader_Load_QueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM items`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "quality", "flags3", "name", "name_suffix"}))
	mock.ExpectQuery(`FROM item_bonus_lists`).WillReturnError(errors.New(`relation "item_bonus_lists" does not exist`))

	m, err := NewLoader(mock).Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, m)
	errutil.AssertErrorCode(t, err, "CATALOG_LOAD_FAILED")
	errutil.AssertErrorContext(t, err, "table", "item_bonus_lists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_Load_RowError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM items`).WillReturnRows(
		pgxmock.NewRows([]string{"id", "quality", "flags3", "name", "name_suffix"}).
			AddRow(int64(1), int16(1), int64(0), en("Shirt"), []string(nil)).
			RowError(0, errors.New("connection reset")))

	_, err := NewLoader(mock).Load(context.Background())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CATALOG_LOAD_FAILED")
	errutil.AssertErrorContext(t, err, "table", "items")
	assert.Contains(t, err.Error(), "connection reset")
}

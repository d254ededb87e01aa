// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/linkguard/internal/catalog"
	"github.com/holomush/linkguard/pkg/errutil"
)

func importSeed() *catalog.Seed {
	return &catalog.Seed{
		FormatVersion: "1.0.0",
		Items: []catalog.SeedItem{{
			ID:                2,
			Quality:           uint8(catalog.QualityRare),
			DisplayAsHeirloom: true,
			Name:              map[string]string{"enUS": "Band"},
			NameSuffix:        map[string]string{"enUS": "of the Monkey"},
		}},
		BonusLists: []int32{42},
		Quests: []catalog.SeedQuest{
			{ID: 51101, LogTitle: "The Wounded King", Locales: map[string]string{"frFR": "Le roi blessé"}},
			{ID: 7, LogTitle: "Untranslated"},
		},
		Spells:             []catalog.SeedSpell{{ID: 3919, TradeSpell: true, Name: map[string]string{"enUS": "Rough Dynamite"}}},
		SkillLines:         []catalog.SeedSkillLine{{ID: 202, DisplayName: map[string]string{"enUS": "Engineering"}}},
		SkillLineAbilities: []catalog.SeedSkillLineAbility{{ID: 1, SpellID: 3919, SkillLine: 202}},
		Achievements:       []catalog.SeedAchievement{{ID: 546, Title: map[string]string{"enUS": "Safe Deposit"}}},
		Talents:            []catalog.SeedTalent{{ID: 2232, SpellID: 3919}},
		Glyphs:             []catalog.SeedGlyph{{ID: 762, SpellID: 3919}},
	}
}

// anyArgs matches n statement arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func inserted() pgconn.CommandTag {
	return pgxmock.NewResult("INSERT", 1)
}

func TestImporter_Import(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO items`).
		WithArgs(int64(2), int16(catalog.QualityRare), int64(catalog.ItemFlag3DisplayAsHeirloom), en("Band"), en("of the Monkey")).
		WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO item_bonus_lists`).WithArgs(int32(42)).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO quests`).WithArgs(int64(51101), "The Wounded King").WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO quest_locales`).
		WithArgs(int64(51101), slots(map[string]string{"frFR": "Le roi blessé"})).
		WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO quests`).WithArgs(int64(7), "Untranslated").WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO spells`).
		WithArgs(int64(3919), int16(0), int64(catalog.SpellAttr0TradeSpell), en("Rough Dynamite")).
		WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO skill_lines`).WithArgs(int64(202), en("Engineering")).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO skill_line_abilities`).WithArgs(int64(1), int64(3919), int64(202)).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO achievements`).WithArgs(int64(546), en("Safe Deposit")).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO talents`).WithArgs(int64(2232), int64(3919)).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO glyph_properties`).WithArgs(int64(762), int64(3919)).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO catalog_imports`).
		WithArgs(pgxmock.AnyArg(), "1.0.0", pgxmock.AnyArg(), now).
		WillReturnResult(inserted())
	mock.ExpectCommit()

	importer := NewImporter(mock)
	importer.now = func() time.Time { return now }

	result, err := importer.Import(context.Background(), importSeed())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, now, result.ImportedAt)
	assert.Equal(t, uint64(now.UnixMilli()), result.ID.Time())
	assert.Equal(t, 2, result.Stats.Quests)
	assert.Equal(t, 1, result.Stats.Glyphs)
}

func TestImporter_Import_AlreadySeeded(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO items`).WithArgs(anyArgs(5)...).WillReturnError(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		TableName:      "items",
		ConstraintName: "items_pkey",
	})
	mock.ExpectRollback()

	_, err := NewImporter(mock).Import(context.Background(), importSeed())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CATALOG_ALREADY_SEEDED")
	errutil.AssertErrorContext(t, err, "table", "items")
	errutil.AssertErrorContext(t, err, "item_id", uint32(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import_OtherDatabaseError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO items`).WithArgs(anyArgs(5)...).WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable})
	mock.ExpectRollback()

	_, err := NewImporter(mock).Import(context.Background(), importSeed())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CATALOG_IMPORT_FAILED")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import_Replace(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE quest_locales, items, item_bonus_lists`).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectExec(`INSERT INTO item_bonus_lists`).WithArgs(int32(562)).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO catalog_imports`).
		WithArgs(pgxmock.AnyArg(), "1.2.0", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(inserted())
	mock.ExpectCommit()

	seed := &catalog.Seed{FormatVersion: "1.2.0", BonusLists: []int32{562}}
	result, err := NewImporter(mock, WithReplace()).Import(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.BonusLists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import_BeginFails(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := NewImporter(mock).Import(context.Background(), importSeed())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TX_BEGIN_FAILED")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import_CommitFails(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO item_bonus_lists`).WithArgs(int32(42)).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO catalog_imports`).WithArgs(anyArgs(4)...).WillReturnResult(inserted())
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	seed := &catalog.Seed{FormatVersion: "1.0.0", BonusLists: []int32{42}}
	_, err := NewImporter(mock).Import(context.Background(), seed)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TX_COMMIT_FAILED")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import_FailsOnLaterTable(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO items`).WithArgs(anyArgs(5)...).WillReturnResult(inserted())
	mock.ExpectExec(`INSERT INTO item_bonus_lists`).WithArgs(int32(42)).WillReturnError(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		TableName:      "item_bonus_lists",
		ConstraintName: "item_bonus_lists_pkey",
	})
	mock.ExpectRollback()

	_, err := NewImporter(mock).Import(context.Background(), importSeed())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CATALOG_ALREADY_SEEDED")
	errutil.AssertErrorContext(t, err, "table", "item_bonus_lists")
	errutil.AssertErrorContext(t, err, "bonus_list_id", int32(42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import_InvalidSeedTouchesNothing(t *testing.T) {
	mock := newMock(t)
	seed := &catalog.Seed{
		FormatVersion: "1.0.0",
		Items:         []catalog.SeedItem{{ID: 1, Quality: 12, Name: map[string]string{"enUS": "Broken"}}},
	}

	_, err := NewImporter(mock).Import(context.Background(), seed)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_INVALID")
	assert.NoError(t, mock.ExpectationsWereMet())
}

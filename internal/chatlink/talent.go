// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// RankNotTaken is the rank of a talent the character has not learned.
const RankNotTaken = -1

// TalentLink references a talent:
//
//	|cff4e96f7|Htalent:2232:-1|h[Taste for Blood]|h|r
type TalentLink struct {
	linkBase

	TalentID uint32             `json:"talent_id"`
	SpellID  uint32             `json:"spell_id"`
	Rank     int32              `json:"rank"`
	Talent   *catalog.Talent    `json:"-"`
	Spell    *catalog.SpellInfo `json:"-"`
}

// Kind implements Link.
func (*TalentLink) Kind() Kind { return KindTalent }

func (l *TalentLink) decode(c *cursor, r *Repositories, _ limits) error {
	if err := requireColor(l, ColorTalent); err != nil {
		return err
	}
	id, err := c.readUint32("talent entry")
	if err != nil {
		return inField(err, KindTalent, "talent_id")
	}
	talent, ok := r.Talents.Talent(id)
	if !ok {
		return errUnresolved(KindTalent, "talent_id", id)
	}
	spell, ok := r.Spells.SpellInfo(talent.SpellID, catalog.DifficultyNone)
	if !ok {
		return errUnresolved(KindTalent, "spell_id", talent.SpellID)
	}
	l.TalentID = id
	l.Talent = talent
	l.SpellID = spell.ID
	l.Spell = spell

	if err := c.expect(fieldDelimiter, "talent"); err != nil {
		return inField(err, KindTalent, "rank")
	}
	if l.Rank, err = c.readInt32("talent rank"); err != nil {
		return inField(err, KindTalent, "rank")
	}
	return nil
}

// Taken reports whether the linked talent has been learned.
func (l *TalentLink) Taken() bool {
	return l.Rank > RankNotTaken
}

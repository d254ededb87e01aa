// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// TradeLink references a character's profession window:
//
//	|cffffd000|Htrade:4037:1:150:1:6AAAAAAAAAAAAAAAAAAAAAAOAADAAAAAAAAAAAAAAAAIAAAAAAAAA|h[Engineering]|h|r
//
// The trailing recipe blob is kept verbatim and never interpreted.
type TradeLink struct {
	linkBase

	SpellID       uint32             `json:"spell_id"`
	MinSkillLevel int32              `json:"min_skill_level"`
	MaxSkillLevel int32              `json:"max_skill_level"`
	CharacterID   uint64             `json:"character_id"`
	Data          string             `json:"data,omitempty"`
	Spell         *catalog.SpellInfo `json:"-"`
}

// Kind implements Link.
func (*TradeLink) Kind() Kind { return KindTrade }

func (l *TradeLink) decode(c *cursor, r *Repositories, _ limits) error {
	if err := requireColor(l, ColorTrade); err != nil {
		return err
	}
	spell, err := readSpell(c, r, KindTrade, "spell_id", "trade spell entry")
	if err != nil {
		return err
	}
	l.SpellID = spell.ID
	l.Spell = spell

	if err := c.expect(fieldDelimiter, "trade"); err != nil {
		return inField(err, KindTrade, "min_skill_level")
	}
	if l.MinSkillLevel, err = c.readInt32("minimum skill level"); err != nil {
		return inField(err, KindTrade, "min_skill_level")
	}
	if err := c.expect(fieldDelimiter, "trade"); err != nil {
		return inField(err, KindTrade, "max_skill_level")
	}
	if l.MaxSkillLevel, err = c.readInt32("maximum skill level"); err != nil {
		return inField(err, KindTrade, "max_skill_level")
	}
	if err := c.expect(fieldDelimiter, "trade"); err != nil {
		return inField(err, KindTrade, "character_id")
	}
	if l.CharacterID, err = c.readHex("trade owner guid", 0); err != nil {
		return inField(err, KindTrade, "character_id")
	}
	l.Data = c.skipUntil(separator)
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// EnchantmentLink references a profession recipe:
//
//	|cffffd000|Henchant:3919|h[Engineering: Rough Dynamite]|h|r
type EnchantmentLink struct {
	linkBase

	SpellID uint32             `json:"spell_id"`
	Spell   *catalog.SpellInfo `json:"-"`
}

// Kind implements Link.
func (*EnchantmentLink) Kind() Kind { return KindEnchant }

func (l *EnchantmentLink) decode(c *cursor, r *Repositories, _ limits) error {
	if err := requireColor(l, ColorEnchant); err != nil {
		return err
	}
	spell, err := readSpell(c, r, KindEnchant, "spell_id", "enchantment spell entry")
	if err != nil {
		return err
	}
	l.SpellID = spell.ID
	l.Spell = spell
	return nil
}

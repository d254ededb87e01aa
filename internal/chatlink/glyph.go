// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// GlyphLink references a glyph in a glyph slot:
//
//	|cff66bbff|Hglyph:21:762|h[Glyph of Bladestorm]|h|r
type GlyphLink struct {
	linkBase

	SlotID  uint32                   `json:"slot_id"`
	GlyphID uint32                   `json:"glyph_id"`
	SpellID uint32                   `json:"spell_id"`
	Glyph   *catalog.GlyphProperties `json:"-"`
	Spell   *catalog.SpellInfo       `json:"-"`
}

// Kind implements Link.
func (*GlyphLink) Kind() Kind { return KindGlyph }

func (l *GlyphLink) decode(c *cursor, r *Repositories, _ limits) error {
	if err := requireColor(l, ColorGlyph); err != nil {
		return err
	}
	var err error
	if l.SlotID, err = c.readUint32("glyph slot id"); err != nil {
		return inField(err, KindGlyph, "slot_id")
	}
	if err := c.expect(fieldDelimiter, "glyph"); err != nil {
		return inField(err, KindGlyph, "glyph_id")
	}
	id, err := c.readUint32("glyph entry")
	if err != nil {
		return inField(err, KindGlyph, "glyph_id")
	}
	glyph, ok := r.Glyphs.GlyphProperties(id)
	if !ok {
		return errUnresolved(KindGlyph, "glyph_id", id)
	}
	spell, ok := r.Spells.SpellInfo(glyph.SpellID, catalog.DifficultyNone)
	if !ok {
		return errUnresolved(KindGlyph, "spell_id", glyph.SpellID)
	}
	l.GlyphID = id
	l.Glyph = glyph
	l.SpellID = spell.ID
	l.Spell = spell
	return nil
}

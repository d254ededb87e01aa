// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/linkguard/internal/catalog"
)

// SpellLink references a spell:
//
//	|cff71d5ff|Hspell:21563|h[Command]|h|r
//
// Trade skill spells may be captioned "<profession>: <spell name>".
type SpellLink struct {
	linkBase

	SpellID uint32             `json:"spell_id"`
	Spell   *catalog.SpellInfo `json:"-"`

	spells SpellRepository
}

// Kind implements Link.
func (*SpellLink) Kind() Kind { return KindSpell }

func (l *SpellLink) decode(c *cursor, r *Repositories, _ limits) error {
	if err := requireColor(l, ColorSpell); err != nil {
		return err
	}
	spell, err := readSpell(c, r, KindSpell, "spell_id", "spell entry")
	if err != nil {
		return err
	}
	l.SpellID = spell.ID
	l.Spell = spell
	l.spells = r.Spells
	return nil
}

// readSpell reads a spell id and resolves its base variant.
func readSpell(c *cursor, r *Repositories, kind Kind, field, what string) (*catalog.SpellInfo, error) {
	id, err := c.readUint32(what)
	if err != nil {
		return nil, inField(err, kind, field)
	}
	spell, ok := r.Spells.SpellInfo(id, catalog.DifficultyNone)
	if !ok {
		return nil, errUnresolved(kind, field, id)
	}
	return spell, nil
}

func (l *SpellLink) validateName(caption, msg string) error {
	_ = l.linkBase.validateName(caption, msg)

	name := caption
	if l.Spell.HasAttribute(catalog.SpellAttr0TradeSpell) {
		skill, err := l.skillLine()
		if err != nil {
			return err
		}
		for _, display := range skill.DisplayName {
			if display == "" {
				continue
			}
			if rest, ok := strings.CutPrefix(name, display+": "); ok {
				name = rest
				break
			}
		}
	}

	if matchesLocalized(l.Spell.Name, name, false) {
		return nil
	}
	return errNameMismatch(KindSpell, l.SpellID, caption)
}

// skillLine finds the profession that teaches a trade spell.
func (l *SpellLink) skillLine() (*catalog.SkillLine, error) {
	abilities := l.spells.SkillLineAbilities(l.SpellID)
	if len(abilities) == 0 || abilities[0] == nil {
		return nil, oops.Code(CodeUnresolvedReference).
			With("link_type", string(KindSpell)).
			With("field", "skill_line_ability").
			With("id", l.SpellID).
			Errorf("skill line not found for spell %d", l.SpellID)
	}
	skill, ok := l.spells.SkillLine(abilities[0].SkillLine)
	if !ok {
		return nil, errUnresolved(KindSpell, "skill_line", abilities[0].SkillLine)
	}
	return skill, nil
}

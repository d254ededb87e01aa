// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package chatlink validates the shift-click link markup players embed in
// chat messages:
//
//	|cff71d5ff|Hspell:21563|h[Command]|h|r
//
// Link text comes from the client, so every link must parse cleanly,
// reference an entity that exists in the catalog, carry the color that
// entity is displayed with, and show a caption equal to one of the entity's
// localized names. Any failure rejects the whole message.
package chatlink

import (
	"fmt"

	"github.com/holomush/linkguard/internal/catalog"
)

// Kind is the type tag of a link, as written after |H.
type Kind string

// Supported link kinds.
const (
	KindItem        Kind = "item"
	KindQuest       Kind = "quest"
	KindTrade       Kind = "trade"
	KindTalent      Kind = "talent"
	KindSpell       Kind = "spell"
	KindEnchant     Kind = "enchant"
	KindAchievement Kind = "achievement"
	KindGlyph       Kind = "glyph"
)

// Kinds lists every supported kind.
var Kinds = []Kind{
	KindItem, KindQuest, KindTrade, KindTalent,
	KindSpell, KindEnchant, KindAchievement, KindGlyph,
}

// Span is the byte range of a closed link in the message: from its opening
// separator up to and including the 'r' of |r.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Link is one parsed link. The set of implementations is closed: ItemLink,
// QuestLink, SpellLink, AchievementLink, TradeLink, TalentLink,
// EnchantmentLink and GlyphLink.
type Link interface {
	Kind() Kind
	Color() uint32
	Span() Span
	Caption() string

	base() *linkBase
	// decode reads the payload fields that follow "type:".
	decode(c *cursor, r *Repositories, lim limits) error
	// validateName checks the bracketed caption. msg is the full message,
	// kept for diagnostics.
	validateName(caption, msg string) error
}

// linkBase carries the fields shared by every variant.
type linkBase struct {
	color   uint32
	span    Span
	caption string
}

func (b *linkBase) Color() uint32   { return b.color }
func (b *linkBase) Span() Span      { return b.span }
func (b *linkBase) Caption() string { return b.caption }
func (b *linkBase) base() *linkBase { return b }

// validateName accepts any caption. Variants without an authoritative
// name (trade, talent, enchant, glyph) use it as is.
func (b *linkBase) validateName(caption, _ string) error {
	b.caption = caption
	return nil
}

// newLink constructs the variant for a type tag.
func newLink(tag string) (Link, bool) {
	switch Kind(tag) {
	case KindItem:
		return &ItemLink{}, true
	case KindQuest:
		return &QuestLink{}, true
	case KindTrade:
		return &TradeLink{}, true
	case KindTalent:
		return &TalentLink{}, true
	case KindSpell:
		return &SpellLink{}, true
	case KindEnchant:
		return &EnchantmentLink{}, true
	case KindAchievement:
		return &AchievementLink{}, true
	case KindGlyph:
		return &GlyphLink{}, true
	}
	return nil, false
}

// Fixed colors for kinds whose color does not depend on the entity.
const (
	ColorTrade       uint32 = 0xffffd000
	ColorTalent      uint32 = 0xff4e96f7
	ColorSpell       uint32 = 0xff71d5ff
	ColorEnchant     uint32 = 0xffffd000
	ColorAchievement uint32 = 0xffffff00
	ColorGlyph       uint32 = 0xff66bbff
)

// ItemQualityColors maps item quality to link color.
var ItemQualityColors = [catalog.MaxItemQuality]uint32{
	0xff9d9d9d, // poor
	0xffffffff, // normal
	0xff1eff00, // uncommon
	0xff0070dd, // rare
	0xffa335ee, // epic
	0xffff8000, // legendary
	0xffe6cc80, // artifact
	0xff00ccff, // heirloom
	0xff00ccff, // wow token
}

func formatColor(c uint32) string {
	return fmt.Sprintf("%08x", c)
}

// requireColor rejects a link whose stated color differs from want.
func requireColor(l Link, want uint32) error {
	if l.Color() != want {
		return errColorMismatch(l.Kind(), want, l.Color())
	}
	return nil
}

// matchesLocalized reports whether s equals a non-empty slot of names,
// optionally skipping the reserved none slot.
func matchesLocalized(names catalog.LocalizedString, s string, skipNone bool) bool {
	for i, name := range names {
		if skipNone && catalog.Locale(i) == catalog.LocaleNone {
			continue
		}
		if name != "" && name == s {
			return true
		}
	}
	return false
}

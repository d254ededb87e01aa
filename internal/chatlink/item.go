// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// Item link limits.
const (
	MaxBonusListIDs = 16
	MaxGemSockets   = 3

	// DefaultMaxItemModifiers bounds both the modifier count and the
	// modifier type of an item link.
	DefaultMaxItemModifiers = 46

	// maxCreatorLength matches the client's creator guid buffer.
	maxCreatorLength = 127
)

// ItemModifier is one (type, value) pair of an item link.
type ItemModifier struct {
	Type  int32 `json:"type"`
	Value int32 `json:"value"`
}

// ItemLink references an item instance:
//
//	|cffa335ee|Hitem:124382:0:0:0:0:0:0:0:0:0:0:0:4:42:562:565:567|h[Edict of Argus]|h|r
//
// Fields after the item id are compacted: an empty field means zero, and
// the payload may close early at any field boundary.
type ItemLink struct {
	linkBase

	ItemID             uint32                 `json:"item_id"`
	EnchantID          int32                  `json:"enchant_id,omitempty"`
	GemItemIDs         [MaxGemSockets]int32   `json:"gem_item_ids"`
	RandomPropertyID   int32                  `json:"random_property_id,omitempty"`
	RandomPropertySeed int32                  `json:"random_property_seed,omitempty"`
	ReporterLevel      int32                  `json:"reporter_level,omitempty"`
	ReporterSpec       int32                  `json:"reporter_spec,omitempty"`
	ModifiersMask      int32                  `json:"modifiers_mask,omitempty"`
	Context            int32                  `json:"context,omitempty"`
	BonusListIDs       []int32                `json:"bonus_list_ids,omitempty"`
	Modifiers          []ItemModifier         `json:"modifiers,omitempty"`
	GemBonusListIDs    [MaxGemSockets][]int32 `json:"gem_bonus_list_ids"`
	Creator            string                 `json:"creator,omitempty"`
	UseEnchantID       int32                  `json:"use_enchant_id,omitempty"`
	Item               *catalog.ItemTemplate  `json:"-"`

	padding int32
}

// Kind implements Link.
func (*ItemLink) Kind() Kind { return KindItem }

// ExpectedColor is the color the client displays the item with. ok is false
// when the item's quality has no color.
func ExpectedColor(item *catalog.ItemTemplate) (color uint32, ok bool) {
	quality := item.Quality
	if item.HasFlag3(catalog.ItemFlag3DisplayAsHeirloom) {
		quality = catalog.QualityHeirloom
	}
	if quality >= catalog.MaxItemQuality {
		return 0, false
	}
	return ItemQualityColors[quality], true
}

func (l *ItemLink) decode(c *cursor, r *Repositories, lim limits) error {
	id, err := c.readUint32("item entry")
	if err != nil {
		return inField(err, KindItem, "item_id")
	}
	item, ok := r.Items.ItemTemplate(id)
	if !ok {
		return errUnresolved(KindItem, "item_id", id)
	}
	l.ItemID = id
	l.Item = item

	color, ok := ExpectedColor(item)
	if !ok {
		return errUnresolved(KindItem, "quality", item.Quality)
	}
	if err := requireColor(l, color); err != nil {
		return err
	}

	compacted := []struct {
		field string
		dst   *int32
	}{
		{"enchant_id", &l.EnchantID},
		{"gem_item_id_1", &l.GemItemIDs[0]},
		{"gem_item_id_2", &l.GemItemIDs[1]},
		{"gem_item_id_3", &l.GemItemIDs[2]},
		{"padding", &l.padding},
		{"random_property_id", &l.RandomPropertyID},
		{"random_property_seed", &l.RandomPropertySeed},
		{"reporter_level", &l.ReporterLevel},
		{"reporter_spec", &l.ReporterSpec},
		{"modifiers_mask", &l.ModifiersMask},
		{"context", &l.Context},
	}
	for _, f := range compacted {
		more, err := nextItemField(c)
		if err != nil || !more {
			return inField(err, KindItem, f.field)
		}
		if c.hasValue() {
			if *f.dst, err = c.readInt32("item " + f.field); err != nil {
				return inField(err, KindItem, f.field)
			}
		}
	}

	more, err := nextItemField(c)
	if err != nil || !more {
		return inField(err, KindItem, "bonus_list_count")
	}
	if l.BonusListIDs, err = readBonusList(c, r, "bonus_list"); err != nil {
		return err
	}

	more, err = nextItemField(c)
	if err != nil || !more {
		return inField(err, KindItem, "modifier_count")
	}
	if l.Modifiers, err = readModifiers(c, lim.maxItemModifiers); err != nil {
		return err
	}

	for i := range MaxGemSockets {
		field := gemField(i)
		more, err = nextItemField(c)
		if err != nil || !more {
			return inField(err, KindItem, field)
		}
		if l.GemBonusListIDs[i], err = readBonusList(c, r, field); err != nil {
			return err
		}
	}

	more, err = nextItemField(c)
	if err != nil || !more {
		return inField(err, KindItem, "creator")
	}
	if c.hasValue() {
		start := c.pos
		creator := c.skipUntilAny(":|")
		if c.eof() {
			return inField(errTruncated(c.pos, "creator guid string"), KindItem, "creator")
		}
		if len(creator) > maxCreatorLength {
			return inField(errOverflow(start, "creator length", len(creator), maxCreatorLength), KindItem, "creator")
		}
		l.Creator = creator
	}

	more, err = nextItemField(c)
	if err != nil || !more {
		return inField(err, KindItem, "use_enchant_id")
	}
	if c.hasValue() {
		if l.UseEnchantID, err = c.readInt32("on use enchantment id"); err != nil {
			return inField(err, KindItem, "use_enchant_id")
		}
	}
	return nil
}

func gemField(i int) string {
	return [MaxGemSockets]string{"gem_1_bonus_list", "gem_2_bonus_list", "gem_3_bonus_list"}[i]
}

// nextItemField consumes the delimiter in front of the next compacted field.
// It returns false when the payload closes instead.
func nextItemField(c *cursor) (bool, error) {
	if c.peek() == separator {
		return false, nil
	}
	if err := c.expect(fieldDelimiter, "item"); err != nil {
		return false, err
	}
	return true, nil
}

// readBonusList reads an optional count followed by exactly that many
// bonus list ids, each of which must exist.
func readBonusList(c *cursor, r *Repositories, field string) ([]int32, error) {
	var count uint32
	if c.hasValue() {
		start := c.pos
		n, err := c.readUint32("item " + field + " size")
		if err != nil {
			return nil, inField(err, KindItem, field)
		}
		if n > MaxBonusListIDs {
			return nil, inField(errOverflow(start, "item bonus list id count", n, MaxBonusListIDs), KindItem, field)
		}
		count = n
	}
	if count == 0 {
		return nil, nil
	}

	ids := make([]int32, 0, count)
	for range count {
		if err := c.expect(fieldDelimiter, "item"); err != nil {
			return nil, inField(err, KindItem, field)
		}
		id, err := c.readInt32("item bonus list id")
		if err != nil {
			return nil, inField(err, KindItem, field)
		}
		if _, ok := r.Items.ItemBonusList(id); !ok {
			return nil, errUnresolved(KindItem, field, id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// readModifiers reads an optional count followed by that many type:value pairs.
func readModifiers(c *cursor, limit int) ([]ItemModifier, error) {
	var count uint32
	if c.hasValue() {
		start := c.pos
		n, err := c.readUint32("item modifiers size")
		if err != nil {
			return nil, inField(err, KindItem, "modifier_count")
		}
		if uint64(n) > uint64(limit) {
			return nil, inField(errOverflow(start, "item modifier count", n, limit), KindItem, "modifier_count")
		}
		count = n
	}
	if count == 0 {
		return nil, nil
	}

	mods := make([]ItemModifier, 0, count)
	for range count {
		if err := c.expect(fieldDelimiter, "item"); err != nil {
			return nil, inField(err, KindItem, "modifier_type")
		}
		start := c.pos
		typ, err := c.readInt32("item modifier type")
		if err != nil {
			return nil, inField(err, KindItem, "modifier_type")
		}
		if int64(typ) > int64(limit) {
			return nil, inField(errOverflow(start, "item modifier type", typ, limit), KindItem, "modifier_type")
		}
		if err := c.expect(fieldDelimiter, "item"); err != nil {
			return nil, inField(err, KindItem, "modifier_value")
		}
		value, err := c.readInt32("item modifier value")
		if err != nil {
			return nil, inField(err, KindItem, "modifier_value")
		}
		mods = append(mods, ItemModifier{Type: typ, Value: value})
	}
	return mods, nil
}

// FormatName returns the display name of an item in one locale: the base
// name followed by the localized suffix unless the item hides it.
func FormatName(item *catalog.ItemTemplate, locale catalog.Locale) string {
	name := item.Name.Get(locale)
	if item.HasFlag3(catalog.ItemFlag3HideNameSuffix) || item.NameSuffix == nil {
		return name
	}
	return name + " " + item.NameSuffix.Get(locale)
}

func (l *ItemLink) validateName(caption, msg string) error {
	_ = l.linkBase.validateName(caption, msg)
	for i := range catalog.TotalLocales {
		if i == catalog.LocaleNone || l.Item.Name.Get(i) == "" {
			continue
		}
		if FormatName(l.Item, i) == caption {
			return nil
		}
	}
	return errNameMismatch(KindItem, l.ItemID, caption)
}

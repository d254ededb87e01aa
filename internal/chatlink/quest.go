// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// StrongMaxLevel is the exclusive upper bound of a quest link level.
const StrongMaxLevel = 255

// QuestLink references a quest:
//
//	|cffffff00|Hquest:51101:-1:110:120:5|h[The Wounded King]|h|r
//
// Quest links are not held to a fixed color.
type QuestLink struct {
	linkBase

	QuestID        uint32                 `json:"quest_id"`
	Level          int32                  `json:"level"`
	MinLevel       int32                  `json:"min_level"`
	MaxLevel       int32                  `json:"max_level"`
	ScalingFaction int32                  `json:"scaling_faction"`
	Quest          *catalog.QuestTemplate `json:"-"`

	locale *catalog.QuestLocale
}

// Kind implements Link.
func (*QuestLink) Kind() Kind { return KindQuest }

func (l *QuestLink) decode(c *cursor, r *Repositories, _ limits) error {
	id, err := c.readUint32("quest entry")
	if err != nil {
		return inField(err, KindQuest, "quest_id")
	}
	quest, ok := r.Quests.QuestTemplate(id)
	if !ok {
		return errUnresolved(KindQuest, "quest_id", id)
	}
	l.QuestID = id
	l.Quest = quest
	l.locale, _ = r.Quests.QuestLocale(id)

	if err := c.expect(fieldDelimiter, "quest"); err != nil {
		return inField(err, KindQuest, "level")
	}
	start := c.pos
	if l.Level, err = c.readInt32("quest level"); err != nil {
		return inField(err, KindQuest, "level")
	}
	if l.Level >= StrongMaxLevel {
		return inField(errOverflow(start, "quest level", l.Level, StrongMaxLevel-1), KindQuest, "level")
	}

	fields := []struct {
		field string
		what  string
		dst   *int32
	}{
		{"min_level", "quest min level", &l.MinLevel},
		{"max_level", "quest max level", &l.MaxLevel},
		{"scaling_faction", "quest scaling faction", &l.ScalingFaction},
	}
	for _, f := range fields {
		if err := c.expect(fieldDelimiter, "quest"); err != nil {
			return inField(err, KindQuest, f.field)
		}
		if *f.dst, err = c.readInt32(f.what); err != nil {
			return inField(err, KindQuest, f.field)
		}
	}
	return nil
}

func (l *QuestLink) validateName(caption, msg string) error {
	_ = l.linkBase.validateName(caption, msg)
	if l.Quest.LogTitle == caption {
		return nil
	}
	if l.locale != nil {
		for _, title := range l.locale.LogTitle {
			if title != "" && title == caption {
				return nil
			}
		}
	}
	return errNameMismatch(KindQuest, l.QuestID, caption)
}

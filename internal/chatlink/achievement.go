// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/holomush/linkguard/internal/catalog"
)

// AchievementProgressFields is the number of progress values in an achievement link.
const AchievementProgressFields = 8

// AchievementLink references an achievement earned (or not) by a character:
//
//	|cffffff00|Hachievement:546:0000000000000001:0:0:0:-1:0:0:0:0|h[Safe Deposit]|h|r
type AchievementLink struct {
	linkBase

	AchievementID uint32                            `json:"achievement_id"`
	CharacterID   uint64                            `json:"character_id"`
	Progress      [AchievementProgressFields]uint32 `json:"progress"`
	Achievement   *catalog.Achievement              `json:"-"`
}

// Kind implements Link.
func (*AchievementLink) Kind() Kind { return KindAchievement }

func (l *AchievementLink) decode(c *cursor, r *Repositories, _ limits) error {
	if err := requireColor(l, ColorAchievement); err != nil {
		return err
	}
	id, err := c.readUint32("achievement entry")
	if err != nil {
		return inField(err, KindAchievement, "achievement_id")
	}
	achievement, ok := r.Achievements.Achievement(id)
	if !ok {
		return errUnresolved(KindAchievement, "achievement_id", id)
	}
	l.AchievementID = id
	l.Achievement = achievement

	if err := c.expect(fieldDelimiter, "achievement"); err != nil {
		return inField(err, KindAchievement, "character_id")
	}
	if l.CharacterID, err = c.readHex("character guid", 0); err != nil {
		return inField(err, KindAchievement, "character_id")
	}

	for i := range l.Progress {
		if err := c.expect(fieldDelimiter, "achievement"); err != nil {
			return inField(err, KindAchievement, "progress")
		}
		if l.Progress[i], err = c.readUint32("achievement property"); err != nil {
			return inField(err, KindAchievement, "progress")
		}
	}
	return nil
}

func (l *AchievementLink) validateName(caption, msg string) error {
	_ = l.linkBase.validateName(caption, msg)
	if matchesLocalized(l.Achievement.Title, caption, true) {
		return nil
	}
	return errNameMismatch(KindAchievement, l.AchievementID, caption)
}

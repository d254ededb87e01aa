// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package catalog

import (
	"github.com/samber/oops"
)

// Locale indexes a LocalizedString. The order matches the client's string tables.
type Locale uint8

// Supported locales. LocaleNone is a reserved slot and never carries a name.
const (
	LocaleEnUS Locale = iota
	LocaleKoKR
	LocaleFrFR
	LocaleDeDE
	LocaleZhCN
	LocaleZhTW
	LocaleEsES
	LocaleEsMX
	LocaleRuRU
	LocaleNone
	LocalePtBR
	LocaleItIT

	// TotalLocales is the number of locale slots.
	TotalLocales
)

var localeNames = [TotalLocales]string{
	"enUS", "koKR", "frFR", "deDE", "zhCN", "zhTW",
	"esES", "esMX", "ruRU", "none", "ptBR", "itIT",
}

// String returns the locale code, e.g. "enUS".
func (l Locale) String() string {
	if l >= TotalLocales {
		return "unknown"
	}
	return localeNames[l]
}

// ParseLocale resolves a locale code. The reserved "none" slot is not accepted.
func ParseLocale(code string) (Locale, error) {
	for i, name := range localeNames {
		if name == code && Locale(i) != LocaleNone {
			return Locale(i), nil
		}
	}
	return 0, oops.Code("UNKNOWN_LOCALE").With("locale", code).Errorf("unknown locale %q", code)
}

// LocalizedString holds one string per locale slot.
type LocalizedString [TotalLocales]string

// Get returns the string for a locale, or "" when the locale is out of range.
func (s LocalizedString) Get(l Locale) string {
	if l >= TotalLocales {
		return ""
	}
	return s[l]
}

// NewLocalizedString builds a LocalizedString from locale codes.
func NewLocalizedString(values map[string]string) (LocalizedString, error) {
	var s LocalizedString
	for code, v := range values {
		l, err := ParseLocale(code)
		if err != nil {
			return s, err
		}
		s[l] = v
	}
	return s, nil
}

// English returns a LocalizedString with only the enUS slot set.
func English(name string) LocalizedString {
	var s LocalizedString
	s[LocaleEnUS] = name
	return s
}

// Map returns the non-empty slots keyed by locale code.
func (s LocalizedString) Map() map[string]string {
	out := make(map[string]string)
	for i, v := range s {
		if v != "" {
			out[localeNames[i]] = v
		}
	}
	return out
}

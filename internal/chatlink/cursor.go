// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"math"
	"strings"
)

const (
	// fieldDelimiter separates the fields of a link payload.
	fieldDelimiter = ':'
	// separator introduces a command letter, and closes link payloads.
	separator = '|'

	// maxHexDigits bounds variable-width hex reads to 64 bits.
	maxHexDigits = 16
)

// cursor is a read position over an immutable message.
// A failed read leaves pos where the failure was detected; the message is
// rejected anyway, so there is no rewinding.
type cursor struct {
	buf string
	pos int
}

func newCursor(msg string) *cursor {
	return &cursor{buf: msg}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.buf)
}

// peek returns the next byte, or 0 at the end of input.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.buf[c.pos]
}

// next consumes one byte.
func (c *cursor) next() (byte, bool) {
	if c.eof() {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

// readDecimal consumes an optional '-' and a run of decimal digits.
// overflow is set once the magnitude no longer fits in 33 bits.
func (c *cursor) readDecimal(what string) (neg bool, mag uint64, err error) {
	if c.peek() == '-' {
		neg = true
		c.pos++
	}
	start := c.pos
	overflow := false
	for !c.eof() {
		d := c.buf[c.pos]
		if d < '0' || d > '9' {
			break
		}
		if !overflow {
			mag = mag*10 + uint64(d-'0')
			if mag > 1<<33 {
				overflow = true
			}
		}
		c.pos++
	}
	switch {
	case c.pos == start && c.eof():
		return false, 0, errTruncated(c.pos, what)
	case c.pos == start:
		return false, 0, errStructural(c.pos, "expected a number while reading %s, found '%c'", what, c.peek())
	case c.eof():
		return false, 0, errTruncated(c.pos, what)
	case overflow:
		return false, 0, errOverflow(start, what, c.buf[start:c.pos], uint64(math.MaxUint32))
	}
	return neg, mag, nil
}

// readUint32 reads a decimal number. A leading '-' wraps modulo 2^32.
func (c *cursor) readUint32(what string) (uint32, error) {
	start := c.pos
	neg, mag, err := c.readDecimal(what)
	if err != nil {
		return 0, err
	}
	if mag > math.MaxUint32 {
		return 0, errOverflow(start, what, c.buf[start:c.pos], uint64(math.MaxUint32))
	}
	v := uint32(mag)
	if neg {
		v = -v
	}
	return v, nil
}

// readInt32 reads a signed decimal number.
func (c *cursor) readInt32(what string) (int32, error) {
	start := c.pos
	neg, mag, err := c.readDecimal(what)
	if err != nil {
		return 0, err
	}
	if neg {
		if mag > -math.MinInt32 {
			return 0, errOverflow(start, what, c.buf[start:c.pos], math.MinInt32)
		}
		return int32(-int64(mag)), nil
	}
	if mag > math.MaxInt32 {
		return 0, errOverflow(start, what, c.buf[start:c.pos], math.MaxInt32)
	}
	return int32(mag), nil
}

// readHex reads a run of hex digits. exact > 0 demands exactly that many
// digits; exact == 0 accepts 1 to 16.
func (c *cursor) readHex(what string, exact int) (uint64, error) {
	start := c.pos
	var v uint64
	for !c.eof() {
		d, ok := hexValue(c.buf[c.pos])
		if !ok {
			break
		}
		if c.pos-start < maxHexDigits {
			v = v<<4 | uint64(d)
		}
		c.pos++
	}
	n := c.pos - start
	switch {
	case n == 0 && c.eof():
		return 0, errTruncated(c.pos, what)
	case n == 0:
		return 0, errStructural(c.pos, "invalid hexadecimal number while reading %s", what)
	case exact > 0 && n != exact:
		return 0, errStructural(start, "invalid hexadecimal number while reading %s: %d digits, expected %d", what, n, exact)
	case n > maxHexDigits:
		return 0, errOverflow(start, what, c.buf[start:c.pos], "16 hex digits")
	case c.eof():
		return 0, errTruncated(c.pos, what)
	}
	return v, nil
}

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// expect consumes ch or fails without moving.
func (c *cursor) expect(ch byte, what string) error {
	if c.eof() {
		return errTruncated(c.pos, what)
	}
	if got := c.buf[c.pos]; got != ch {
		return errStructural(c.pos, "invalid %s link structure ('%c' expected, '%c' found)", what, ch, got)
	}
	c.pos++
	return nil
}

// hasValue reports whether a compacted field is present: the next byte is
// neither a field delimiter nor the separator that closes the payload.
func (c *cursor) hasValue() bool {
	next := c.peek()
	return next != fieldDelimiter && next != separator
}

// skipUntil consumes bytes up to term or the end of input. term is not consumed.
func (c *cursor) skipUntil(term byte) string {
	start := c.pos
	for !c.eof() && c.buf[c.pos] != term {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// skipUntilAny is skipUntil over a set of terminators.
func (c *cursor) skipUntilAny(terms string) string {
	start := c.pos
	for !c.eof() && strings.IndexByte(terms, c.buf[c.pos]) < 0 {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// readUntil consumes bytes up to and including term and returns them without
// term. It fails if the input ends first or more than limit bytes precede term.
func (c *cursor) readUntil(term byte, limit int, what string) (string, error) {
	start := c.pos
	s := c.skipUntil(term)
	if c.eof() {
		return "", errTruncated(c.pos, what)
	}
	if len(s) > limit {
		return "", errOverflow(start, what+" length", len(s), limit)
	}
	c.pos++
	return s, nil
}

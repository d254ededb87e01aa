// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/gobwas/glob"
)

// maxPayloadLength bounds the type tag and the caption.
const maxPayloadLength = 255

// grammarState is the command letter the scan expects next. A link is the
// cycle |c |H |h |h |r; the state wraps back to expectingC when it closes.
type grammarState uint8

const (
	expectingC grammarState = iota
	expectingH
	expectingH2
	expectingH3
	expectingR

	grammarStates
)

var commandLetters = [grammarStates]byte{'c', 'H', 'h', 'h', 'r'}

func (s grammarState) advance() grammarState {
	return (s + 1) % grammarStates
}

// limits are the tunable bounds of a scan.
type limits struct {
	maxItemModifiers int
	disabled         []glob.Glob
}

func (l limits) isDisabled(kind Kind) bool {
	for _, g := range l.disabled {
		if g.Match(string(kind)) {
			return true
		}
	}
	return false
}

// extractor scans one message. It is used once and discarded.
type extractor struct {
	cur   *cursor
	repos *Repositories
	lim   limits

	state   grammarState
	color   uint32
	start   int
	current Link
	links   []Link
}

func newExtractor(msg string, repos *Repositories, lim limits) *extractor {
	return &extractor{
		cur:   newCursor(msg),
		repos: repos,
		lim:   lim,
	}
}

// run consumes the whole message. It returns the first failure, or nil if
// every link in the message is valid.
func (e *extractor) run() error {
	c := e.cur
	for !c.eof() {
		if e.state == expectingC {
			// Plain text up to the next separator.
			e.current = nil
			c.skipUntil(separator)
			if c.eof() {
				break
			}
			e.start = c.pos
			c.pos++
		} else if b, _ := c.next(); b != separator {
			return errStructural(c.pos-1, "invalid sequence: '%c' found where '|%c' was expected", b, commandLetters[e.state])
		}

		cmd, ok := c.next()
		if !ok {
			return errStructural(c.pos, "separator followed by end of input")
		}

		if cmd == separator {
			if e.state != expectingC {
				return errStructural(c.pos-1, "escaped separator inside a link sequence")
			}
			continue
		}
		if want := commandLetters[e.state]; cmd != want {
			return errStructural(c.pos-1, "invalid sequence, expected '%c' but got '%c'", want, cmd)
		}
		e.state = e.state.advance()

		if err := e.command(cmd); err != nil {
			return err
		}
	}

	if e.state != expectingC {
		return errTruncated(c.pos, "link sequence")
	}
	return nil
}

func (e *extractor) command(cmd byte) error {
	c := e.cur
	switch cmd {
	case 'c':
		color, err := c.readHex("link color", 8)
		if err != nil {
			return err
		}
		e.color = uint32(color)

	case 'H':
		start := c.pos
		tag, err := c.readUntil(fieldDelimiter, maxPayloadLength, "link type")
		if err != nil {
			return err
		}
		link, ok := newLink(tag)
		if !ok {
			return errUnknownLinkType(start, tag)
		}
		if e.lim.isDisabled(link.Kind()) {
			return errDisabledLinkType(start, link.Kind())
		}
		link.base().color = e.color
		e.links = append(e.links, link)
		e.current = link
		if err := link.decode(c, e.repos, e.lim); err != nil {
			return err
		}

	case 'h':
		// Only the h that follows the type payload carries a caption.
		if e.state != expectingH3 {
			return nil
		}
		if err := c.expect('[', "link caption"); err != nil {
			return err
		}
		caption, err := c.readUntil(']', maxPayloadLength, "link caption")
		if err != nil {
			return err
		}
		if e.current == nil {
			return errStructural(c.pos, "link caption without a link")
		}
		if err := e.current.validateName(caption, c.buf); err != nil {
			return err
		}

	case 'r':
		if e.current != nil {
			e.current.base().span = Span{Start: e.start, End: c.pos}
		}
	}
	return nil
}

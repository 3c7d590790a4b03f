// Package highlight wraps matched ranges of a text in marker strings, either
// as escaped HTML or as styled terminal output.
package highlight

import (
	"slices"

	"github.com/dl/regexapply/internal/escape"
)

// Markers are the strings inserted around every match. A nil field inserts
// nothing on that side.
type Markers struct {
	Before *string
	After  *string
}

// Wrap returns markers that insert before and after around each match.
func Wrap(before, after string) *Markers {
	return &Markers{Before: &before, After: &after}
}

func (m *Markers) before() string {
	if m.Before == nil {
		return ""
	}
	return *m.Before
}

func (m *Markers) after() string {
	if m.After == nil {
		return ""
	}
	return *m.After
}

// HTML inserts the markers around each [first, last] range of text and
// returns the result HTML-escaped, except for the angle brackets that belong
// to the markers themselves. With nil markers, or markers with neither side
// set, text is returned as is.
//
// Ranges are applied in the order given, each insertion shifting the ones
// after it, so they must be sorted by first offset.
func HTML(text string, ranges [][2]int, m *Markers) string {
	if m == nil || (m.Before == nil && m.After == nil) {
		return text
	}
	before := []rune(escape.Dress(m.before()))
	after := []rune(escape.Dress(m.after()))

	work := []rune(text)
	insertOffset := 0
	for _, r := range ranges {
		work = insertAt(work, r[0]+insertOffset, before)
		insertOffset += len(before)
		work = insertAt(work, r[1]+1+insertOffset, after)
		insertOffset += len(after)
	}
	return escape.Undress(escape.Escape(string(work)))
}

// insertAt inserts s into work at pos, clamped to the bounds of work.
func insertAt(work []rune, pos int, s []rune) []rune {
	if len(s) == 0 {
		return work
	}
	pos = max(0, min(pos, len(work)))
	return slices.Insert(work, pos, s...)
}

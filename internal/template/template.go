// Package template implements the anchor templates used to replace matches.
//
// A template is literal text with backslash directives:
//
//	\\          a literal backslash
//	\n, \t      newline, tab
//	\I          1-based position of the current match
//	\-I         the same, counted from the last match
//	\&          the text of the current match
//	\-&         the text of the match at the mirrored position
//
// \I and \& (and their inverted forms) take an optional shift, +k or -k.
// Shifted positions wrap around the match count, so \I+1 on the last match
// is 1 and \&-1 on the first match is the last match's text. Any other
// backslash sequence is copied as is.
package template

import (
	"strconv"
	"strings"

	"github.com/dl/regexapply/internal/escape"
)

type partKind int

const (
	partLiteral  partKind = iota
	partPosition          // \I
	partMatch             // \&
)

type part struct {
	kind     partKind
	text     string // literal text, or the directive's own source
	inverted bool
	shift    string // decimal digits of a +k or -k shift
	negative bool
}

// Template is a parsed replacement template.
type Template struct {
	src   string
	parts []part
	// verbatim is set when src holds no directive at all.
	verbatim bool
}

// Parse scans src. It never fails: anything that is not a directive is
// literal text.
func Parse(src string) *Template {
	t := &Template{src: src}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{kind: partLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	directives := 0
	for i := 0; i < len(src); {
		if src[i] != '\\' || i+1 == len(src) {
			lit.WriteByte(src[i])
			i++
			continue
		}
		if r, ok := simpleEscape(src[i+1]); ok {
			lit.WriteByte(r)
			i += 2
			directives++
			continue
		}
		p, n, ok := parseAnchor(src[i:])
		if !ok {
			lit.WriteByte('\\')
			i++
			continue
		}
		flush()
		t.parts = append(t.parts, p)
		i += n
		directives++
	}
	flush()
	t.verbatim = directives == 0
	return t
}

// Expand renders the template for the match at index (0-based) out of count
// matches. With no matches there is nothing to point at, so position and
// match directives are emitted as their own source text.
func (t *Template) Expand(index, count int, matched []string) string {
	if t.verbatim {
		return t.src
	}
	var b strings.Builder
	for _, p := range t.parts {
		switch p.kind {
		case partLiteral:
			b.WriteString(p.text)
		case partPosition:
			if count == 0 {
				b.WriteString(p.text)
				continue
			}
			b.WriteString(strconv.Itoa(p.target(index, count) + 1))
		case partMatch:
			idx := -1
			if count > 0 {
				idx = p.target(index, count)
			}
			if idx < 0 || idx >= len(matched) {
				b.WriteString(p.text)
				continue
			}
			b.WriteString(matched[idx])
		}
	}
	return escape.StripSentinels(b.String())
}

// target resolves the directive to a 0-based match index inside
// [0, count-1].
func (p part) target(index, count int) int {
	base := index
	if p.inverted {
		base = count - 1 - index
	}
	return wrap(base+p.shiftMod(count), count)
}

// shiftMod reduces the shift modulo count digit by digit, so shifts of any
// length stay exact.
func (p part) shiftMod(count int) int {
	k := 0
	for i := 0; i < len(p.shift); i++ {
		k = (k*10 + int(p.shift[i]-'0')) % count
	}
	if p.negative {
		return -k
	}
	return k
}

// wrap reduces i modulo n into [0, n-1].
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func simpleEscape(c byte) (byte, bool) {
	switch c {
	case '\\':
		return '\\', true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	}
	return 0, false
}

// parseAnchor parses \I, \-I, \& or \-& with an optional +k / -k shift at
// the start of s, which begins with a backslash. It returns the directive
// and the number of bytes consumed.
func parseAnchor(s string) (part, int, bool) {
	i := 1
	p := part{}
	if i < len(s) && s[i] == '-' {
		p.inverted = true
		i++
	}
	if i >= len(s) {
		return part{}, 0, false
	}
	switch s[i] {
	case 'I':
		p.kind = partPosition
	case '&':
		p.kind = partMatch
	default:
		return part{}, 0, false
	}
	i++

	if i+1 < len(s) && (s[i] == '+' || s[i] == '-') && isDigit(s[i+1]) {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		p.shift = s[i+1 : j]
		p.negative = s[i] == '-'
		i = j
	}
	p.text = s[:i]
	return p, i, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Unescape resolves the \\, \n and \t sequences of s and leaves every other
// backslash alone.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if r, ok := simpleEscape(s[i+1]); ok {
				b.WriteByte(r)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

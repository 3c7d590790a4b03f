package matcher

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoPattern is returned by Combine when given no patterns.
var ErrNoPattern = errors.New("no patterns provided")

// ErrTimeout is wrapped by cursor errors caused by an exceeded match timeout.
var ErrTimeout = errors.New("match timeout")

// Loc is a half-open span [Start, End) of character (rune) offsets.
type Loc struct {
	Start int
	End   int
}

// Len returns the number of characters covered by the span.
func (l Loc) Len() int { return l.End - l.Start }

// Regexp is a compiled pattern bound to one host engine.
type Regexp interface {
	// Scan prepares a search over text. The returned Cursor is only valid
	// for that text.
	Scan(text []rune) Cursor

	// Close releases engine resources held by the compiled pattern.
	Close()
}

// Cursor walks the matches of a pattern over one text.
type Cursor interface {
	// Next returns the leftmost match starting at or after rune offset from.
	// Callers must pass non-decreasing values of from.
	Next(from int) (Loc, bool, error)
}

// Kind selects the host regex engine.
type Kind int

const (
	KindAuto    Kind = iota // literal patterns to coregex, the rest to ECMA
	KindECMA                // dlclark/regexp2 in ECMAScript mode
	KindRE2                 // Go regexp
	KindPCRE                // PCRE2 via go.elara.ws/pcre
	KindCoregex             // coregx/coregex
)

var kindNames = map[Kind]string{
	KindAuto:    "auto",
	KindECMA:    "ecma",
	KindRE2:     "re2",
	KindPCRE:    "pcre",
	KindCoregex: "coregex",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps an engine name to its Kind. The empty string means auto.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return KindAuto, nil
	}
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return KindAuto, fmt.Errorf("unknown engine %q", name)
}

// Options configures compilation.
type Options struct {
	Kind Kind
	// Timeout bounds a single match attempt. Only the ECMA engine honors it.
	Timeout time.Duration
}

// Compile compiles source for the engine selected in opts. The Global and
// Sticky flags do not affect compilation; they steer the caller's cursor loop.
func Compile(source string, flags Flags, opts Options) (Regexp, error) {
	kind := opts.Kind
	if kind == KindAuto {
		kind = KindECMA
		if isLiteral(source) && !flags.IgnoreCase {
			kind = KindCoregex
		}
	}

	switch kind {
	case KindECMA:
		re, err := NewECMARegexp(source, flags, opts.Timeout)
		if err != nil {
			return nil, err
		}
		if !portableEscapes(source) {
			return re, nil
		}
		return withPrefilter(re, source, flags), nil
	case KindRE2:
		re, err := NewRE2Regexp(source, flags)
		if err != nil {
			return nil, err
		}
		return withPrefilter(re, source, flags), nil
	case KindPCRE:
		return NewPCRERegexp(source, flags)
	case KindCoregex:
		return NewCoregexRegexp(source, flags)
	}
	return nil, fmt.Errorf("unknown engine %v", kind)
}

// Combine joins several patterns into a single alternation.
func Combine(patterns []string) (string, error) {
	if len(patterns) == 0 {
		return "", ErrNoPattern
	}
	if len(patterns) == 1 {
		return patterns[0], nil
	}
	var b strings.Builder
	for i, p := range patterns {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString("(?:")
		b.WriteString(p)
		b.WriteByte(')')
	}
	return b.String(), nil
}

// isLiteral returns true if the pattern contains no regex metacharacters
// and can be treated as a fixed string.
func isLiteral(pattern string) bool {
	return pattern != "" && !strings.ContainsAny(pattern, `\.+*?()|[]{}^$`)
}

// inlineFlags renders the flags an RE2-style engine understands as a
// (?ims) prefix.
func inlineFlags(f Flags) string {
	var b strings.Builder
	if f.IgnoreCase {
		b.WriteByte('i')
	}
	if f.Multiline {
		b.WriteByte('m')
	}
	if f.DotAll {
		b.WriteByte('s')
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

package matcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// ECMARegexp evaluates patterns with regexp2 in ECMAScript mode. regexp2
// indexes by rune and resumes a search at an arbitrary offset without losing
// the context of ^, \b or lookbehind, which is exactly a JavaScript lastIndex.
type ECMARegexp struct {
	re *regexp2.Regexp
}

// NewECMARegexp compiles source. The s flag is applied as an inline
// (?s:...) group so the pattern keeps ECMAScript classes for \d, \w and \s.
func NewECMARegexp(source string, f Flags, timeout time.Duration) (*ECMARegexp, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if f.DotAll {
		source = "(?s:" + source + ")"
	}
	if f.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	if f.Multiline {
		opts |= regexp2.Multiline
	}
	if f.Unicode {
		opts |= regexp2.Unicode
	}

	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return &ECMARegexp{re: re}, nil
}

func (r *ECMARegexp) Scan(text []rune) Cursor {
	return &ecmaCursor{re: r.re, text: text}
}

func (r *ECMARegexp) Close() {}

type ecmaCursor struct {
	re   *regexp2.Regexp
	text []rune
}

func (c *ecmaCursor) Next(from int) (Loc, bool, error) {
	if from > len(c.text) {
		return Loc{}, false, nil
	}
	m, err := c.re.FindRunesMatchStartingAt(c.text, from)
	if err != nil {
		// regexp2 reports timeouts with an unexported error type.
		if strings.Contains(err.Error(), "match timeout") {
			return Loc{}, false, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Loc{}, false, err
	}
	if m == nil {
		return Loc{}, false, nil
	}
	return Loc{Start: m.Index, End: m.Index + m.Length}, true, nil
}

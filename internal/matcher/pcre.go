package matcher

import "go.elara.ws/pcre"

// PCRERegexp matches using PCRE2-compatible regexes via the pure Go pcre package.
// Supports lookahead, lookbehind, backreferences, atomic groups, and all PCRE2 features.
type PCRERegexp struct {
	re *pcre.Regexp
}

// NewPCRERegexp compiles a PCRE2 pattern. Case folding goes through the
// compile options; m and s are applied inline.
func NewPCRERegexp(source string, f Flags) (*PCRERegexp, error) {
	var opts pcre.CompileOption
	if f.IgnoreCase {
		opts |= pcre.Caseless
	}
	inline := Flags{Multiline: f.Multiline, DotAll: f.DotAll}

	re, err := pcre.CompileOpts(inlineFlags(inline)+source, opts)
	if err != nil {
		return nil, err
	}
	return &PCRERegexp{re: re}, nil
}

func (r *PCRERegexp) Scan(text []rune) Cursor {
	s := string(text)
	return &indexCursor{locs: runeLocs(s, r.re.FindAllIndex([]byte(s), -1))}
}

// Close releases the compiled PCRE regex resources.
func (r *PCRERegexp) Close() {
	if r.re != nil {
		r.re.Close()
	}
}

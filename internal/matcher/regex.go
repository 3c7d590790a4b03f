package matcher

import "regexp"

// RE2Regexp uses Go's RE2 regexp engine.
type RE2Regexp struct {
	re *regexp.Regexp
}

// NewRE2Regexp compiles source with the i, m and s flags applied inline.
func NewRE2Regexp(source string, f Flags) (*RE2Regexp, error) {
	re, err := regexp.Compile(inlineFlags(f) + source)
	if err != nil {
		return nil, err
	}
	return &RE2Regexp{re: re}, nil
}

func (r *RE2Regexp) Scan(text []rune) Cursor {
	s := string(text)
	return &indexCursor{locs: runeLocs(s, r.re.FindAllStringIndex(s, -1))}
}

func (r *RE2Regexp) Close() {}

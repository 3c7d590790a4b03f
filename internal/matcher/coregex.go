package matcher

import "github.com/coregx/coregex"

// CoregexRegexp runs RE2-syntax patterns on coregex. Literal patterns are
// served by its SIMD prefilters, which is why auto mode routes them here.
type CoregexRegexp struct {
	re *coregex.Regex
}

// NewCoregexRegexp compiles source with the i, m and s flags applied inline.
// coregex's literal prefilter ignores case folding, so it is turned off for
// the i flag and the NFA folds instead. The NFA folds ASCII letters only.
func NewCoregexRegexp(source string, f Flags) (*CoregexRegexp, error) {
	cfg := coregex.DefaultConfig()
	if f.IgnoreCase {
		cfg.EnablePrefilter = false
	}
	re, err := coregex.CompileWithConfig(inlineFlags(f)+source, cfg)
	if err != nil {
		return nil, err
	}
	return &CoregexRegexp{re: re}, nil
}

func (r *CoregexRegexp) Scan(text []rune) Cursor {
	s := string(text)
	return &indexCursor{locs: runeLocs(s, r.re.FindAllStringIndex(s, -1))}
}

func (r *CoregexRegexp) Close() {}

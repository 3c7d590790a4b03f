package output

import (
	"fmt"

	"github.com/dl/regexapply/internal/apply"
)

// Mode selects what a run prints for each input.
type Mode int

const (
	ModeMatches   Mode = iota // one matched string per line
	ModeRanges                // one "first:last" pair per line
	ModeHighlight             // the text as HTML with matches wrapped in markers
	ModeReplace               // the text with matches replaced by a template
	ModeJoin                  // the matched strings joined
	ModeANSI                  // the text with matches styled for a terminal
)

var modeNames = [...]string{"matches", "ranges", "highlight", "replace", "join", "ansi"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Rendered reports whether the mode prints a rendering of the whole text
// rather than a list of matches.
func (m Mode) Rendered() bool {
	return m >= ModeHighlight
}

// Result is the outcome of applying the patterns to one input.
type Result struct {
	FilePath string // empty for stdin
	SeqNum   int
	Ranges   []apply.Range
	Strings  []string
	// Output holds the rendering for modes where Mode.Rendered is true.
	Output   string
	Warnings []string
	Binary   bool // skipped, content is not text
	Err      error
}

// HasMatch returns true if the input matched at least once.
func (r *Result) HasMatch() bool {
	return len(r.Ranges) > 0
}

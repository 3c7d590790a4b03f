// Package apply holds the match index engine: a pattern, a text and the
// regions of that text to search, plus the lazily computed set of matches
// that the highlight, replace and join operations read from.
package apply

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dl/regexapply/internal/highlight"
	"github.com/dl/regexapply/internal/join"
	"github.com/dl/regexapply/internal/matcher"
	"github.com/dl/regexapply/internal/template"
)

// Applier is a pattern + text + regions configuration. Setters only record
// the new value and mark the cached matches stale; the matches are
// recomputed by the first read that needs them.
//
// An Applier is safe for concurrent use.
type Applier struct {
	mu sync.Mutex

	source  string
	flags   string
	engine  matcher.Kind
	timeout time.Duration

	text    string
	runes   []rune
	regions []Region

	ranges   []Range // as computed or injected
	resolved []Range // ranges resolved against the text
	matched  []string
	done     bool
	warnings []string
}

// New creates an Applier. Regions default to the whole text.
func New(source, flags, text string) *Applier {
	a := &Applier{source: source, flags: flags}
	a.setText(text)
	return a
}

func (a *Applier) Pattern() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.source
}

func (a *Applier) SetPattern(source string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = source
	a.done = false
}

func (a *Applier) Flags() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flags
}

func (a *Applier) SetFlags(flags string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flags = flags
	a.done = false
}

// SetEngine selects the host regex engine. The default is matcher.KindAuto.
func (a *Applier) SetEngine(kind matcher.Kind) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine = kind
	a.done = false
}

// SetTimeout bounds each match attempt on engines that support it.
func (a *Applier) SetTimeout(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeout = d
	a.done = false
}

func (a *Applier) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

// SetText replaces the text and resets the regions to the whole text.
func (a *Applier) SetText(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setText(text)
}

func (a *Applier) setText(text string) {
	a.text = text
	a.runes = []rune(text)
	a.regions = wholeText(len(a.runes))
	a.done = false
}

// Regions returns a copy of the search regions.
func (a *Applier) Regions() []Region {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.regions)
}

// SetRegions sets the regions to search. A nil or empty slice reverts to a
// single region spanning the whole text.
func (a *Applier) SetRegions(regions []Region) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(regions) == 0 {
		a.regions = wholeText(len(a.runes))
	} else {
		a.regions = slices.Clone(regions)
	}
	a.done = false
}

// MatchedStrings returns the matched substrings, in match order.
func (a *Applier) MatchedStrings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return slices.Clone(a.matched)
}

// MatchedRanges returns a copy of the match ranges.
func (a *Applier) MatchedRanges() []Range {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return slices.Clone(a.ranges)
}

// SetMatchedRanges seeds the matches directly, bypassing the pattern. The
// matched strings are cut from the current text straight away. Negative
// offsets count from the end of the text.
func (a *Applier) SetMatchedRanges(ranges []Range) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetOutput()
	a.ranges = slices.Clone(ranges)
	a.resolved = make([]Range, len(ranges))
	for i, r := range ranges {
		a.resolved[i] = r.Resolve(len(a.runes))
	}
	a.extractStrings()
	a.done = true
}

// Warnings returns the diagnostics of the most recent match computation.
func (a *Applier) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return slices.Clone(a.warnings)
}

// Highlight renders the text as HTML with every match wrapped in the given
// markers. A nil markers value returns the text unchanged.
func (a *Applier) Highlight(markers *highlight.Markers) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return highlight.HTML(a.text, pairs(a.resolved), markers)
}

// ANSI renders the text for a terminal with every match styled.
func (a *Applier) ANSI(style lipgloss.Style) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return highlight.ANSI(a.text, pairs(a.resolved), style)
}

// Replace substitutes every match with the expansion of tmpl.
func (a *Applier) Replace(tmpl string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return template.Replace(a.text, pairs(a.resolved), a.matched, template.Parse(tmpl))
}

// Join concatenates the matched strings. See join.Join.
func (a *Applier) Join(separator, prefix, postfix string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureComputed()
	return join.Join(a.matched, separator, prefix, postfix)
}

// ensureComputed runs the match computation if any input changed since the
// last one. Callers hold a.mu.
func (a *Applier) ensureComputed() {
	if a.done {
		return
	}
	a.findMatches()
}

func (a *Applier) findMatches() {
	a.resetOutput()
	defer func() { a.done = true }()

	if a.source == "" {
		return
	}
	flags, err := matcher.ParseFlags(a.flags)
	if err == nil {
		var re matcher.Regexp
		re, err = matcher.Compile(a.source, flags, matcher.Options{Kind: a.engine, Timeout: a.timeout})
		if err == nil {
			defer re.Close()
			a.scanRegions(re, flags)
			a.resolved = a.ranges
			a.extractStrings()
			return
		}
	}
	a.warnings = append(a.warnings, fmt.Sprintf("Invalid RegExp string | flags: %s | %s", a.source, a.flags))
}

// scanRegions walks every region in order and collects absolute ranges. An
// engine error stops the scan; ranges found before it are kept.
func (a *Applier) scanRegions(re matcher.Regexp, flags matcher.Flags) {
	for _, region := range a.regions {
		lo, hi := region.bounds(len(a.runes))
		slice := a.runes[lo:hi]
		cur := re.Scan(slice)

		from := 0
		for from <= len(slice) {
			loc, ok, err := cur.Next(from)
			if errors.Is(err, matcher.ErrTimeout) {
				a.warnings = append(a.warnings, fmt.Sprintf("Match timeout | %s | %s", a.source, a.flags))
				return
			}
			if err != nil {
				a.warnings = append(a.warnings, fmt.Sprintf("Match aborted | %s | %s: %v", a.source, a.flags, err))
				return
			}
			if !ok {
				break
			}
			if flags.Sticky && loc.Start != from {
				break
			}
			if flags.Global && loc.Len() == 0 {
				from = loc.Start + 1
				continue
			}
			a.ranges = append(a.ranges, Range{First: lo + loc.Start, Last: lo + loc.End - 1})
			if !flags.Global {
				break
			}
			from = loc.End
		}
	}
}

// extractStrings cuts the matched substrings out of the text by range.
func (a *Applier) extractStrings() {
	a.matched = make([]string, len(a.resolved))
	for i, r := range a.resolved {
		a.matched[i] = string(a.runes[r.First : r.Last+1])
	}
}

func (a *Applier) resetOutput() {
	a.ranges = nil
	a.resolved = nil
	a.matched = nil
	a.warnings = nil
	a.done = false
}

// pairs converts ranges to the [first, last] pairs the renderers consume.
func pairs(ranges []Range) [][2]int {
	out := make([][2]int, len(ranges))
	for i, r := range ranges {
		out[i] = [2]int{r.First, r.Last}
	}
	return out
}

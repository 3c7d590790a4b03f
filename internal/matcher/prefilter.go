package matcher

import (
	"regexp/syntax"
	"strings"
)

// minPrefilterLen is the shortest literal worth a pre-scan.
const minPrefilterLen = 3

// requiredLiteral parses source as RE2 syntax and returns the longest
// literal that every match must contain. Patterns RE2 cannot parse
// (lookaround, backreferences and other ECMAScript-only syntax) have none.
// Case-insensitive patterns are not prefiltered.
func requiredLiteral(source string, f Flags) ([]rune, bool) {
	if f.IgnoreCase {
		return nil, false
	}
	re, err := syntax.Parse(source, syntax.Perl)
	if err != nil {
		return nil, false
	}
	var best []rune
	for _, lit := range requiredLiterals(re.Simplify()) {
		if len(lit.runes) > len(best) && !lit.fold {
			best = lit.runes
		}
	}
	if len(best) < minPrefilterLen {
		return nil, false
	}
	return best, true
}

type literal struct {
	runes []rune
	fold  bool // from a (?i) group inside the pattern
}

// requiredLiterals collects the literals that must appear in any match of
// re. A node is only descended into when it matches at least once.
func requiredLiterals(re *syntax.Regexp) []literal {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return nil
		}
		return []literal{{runes: re.Rune, fold: re.Flags&syntax.FoldCase != 0}}
	case syntax.OpConcat:
		return concatLiterals(re.Sub)
	case syntax.OpCapture, syntax.OpPlus:
		return requiredLiterals(re.Sub[0])
	case syntax.OpRepeat:
		if re.Min >= 1 {
			return requiredLiterals(re.Sub[0])
		}
	}
	// Star, Quest and Alternate have no single required branch; classes
	// and anchors hold no literal.
	return nil
}

// concatLiterals merges runs of adjacent literal children, so "ab" "cd"
// yields "abcd", and recurses into the other children.
func concatLiterals(subs []*syntax.Regexp) []literal {
	var out []literal
	var run literal
	flush := func() {
		if len(run.runes) > 0 {
			out = append(out, run)
		}
		run = literal{}
	}
	for _, sub := range subs {
		if sub.Op != syntax.OpLiteral || len(sub.Rune) == 0 {
			flush()
			out = append(out, requiredLiterals(sub)...)
			continue
		}
		fold := sub.Flags&syntax.FoldCase != 0
		if len(run.runes) > 0 && fold != run.fold {
			flush()
		}
		run.fold = fold
		run.runes = append(run.runes, sub.Rune...)
	}
	flush()
	return out
}

// prefiltered skips the wrapped engine on texts that lack a literal every
// match needs.
type prefiltered struct {
	Regexp
	needle    []rune
	skipASCII [128]int
}

func withPrefilter(re Regexp, source string, f Flags) Regexp {
	needle, ok := requiredLiteral(source, f)
	if !ok {
		return re
	}
	p := &prefiltered{Regexp: re, needle: needle}
	for i := range p.skipASCII {
		p.skipASCII[i] = len(needle)
	}
	for i, r := range needle[:len(needle)-1] {
		if r < 128 {
			p.skipASCII[r] = len(needle) - 1 - i
		}
	}
	return p
}

func (p *prefiltered) Scan(text []rune) Cursor {
	if p.index(text) < 0 {
		return noMatches{}
	}
	return p.Regexp.Scan(text)
}

// index finds the needle with Horspool's algorithm. Non-ASCII runes use the
// shortest safe shift computed on the fly.
func (p *prefiltered) index(text []rune) int {
	n, m := len(text), len(p.needle)
	last := m - 1
	for i := 0; i+m <= n; {
		j := last
		for j >= 0 && text[i+j] == p.needle[j] {
			j--
		}
		if j < 0 {
			return i
		}
		i += p.shift(text[i+last])
	}
	return -1
}

func (p *prefiltered) shift(r rune) int {
	if r >= 0 && r < 128 {
		return p.skipASCII[r]
	}
	m := len(p.needle)
	for k := m - 2; k >= 0; k-- {
		if p.needle[k] == r {
			return m - 1 - k
		}
	}
	return m
}

// portableEscapes reports whether every backslash escape in source means
// the same in ECMAScript and RE2. Escapes such as \Q, \x{..} or octal
// codes parse into different literals in the two dialects.
func portableEscapes(source string) bool {
	for i := 0; i < len(source); i++ {
		if source[i] != '\\' {
			continue
		}
		i++
		if i == len(source) || !strings.ContainsRune(`dDwWsSbBnrt.*+?()[]{}|^$\/-`, rune(source[i])) {
			return false
		}
	}
	return true
}

type noMatches struct{}

func (noMatches) Next(int) (Loc, bool, error) { return Loc{}, false, nil }

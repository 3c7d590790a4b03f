package template

import "strings"

// Replace walks ranges left to right over text, copying the text between
// them verbatim and substituting each [first, last] range with t expanded
// for that match. matched holds the text of every match, in range order.
// A range that starts inside an earlier one only contributes its expansion.
func Replace(text string, ranges [][2]int, matched []string, t *Template) string {
	if len(ranges) == 0 {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	prev := 0
	for i, r := range ranges {
		first := max(prev, min(r[0], len(runes)))
		b.WriteString(string(runes[prev:first]))
		b.WriteString(t.Expand(i, len(ranges), matched))
		prev = max(prev, min(r[1]+1, len(runes)))
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

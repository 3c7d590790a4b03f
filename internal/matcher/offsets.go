package matcher

import "unicode/utf8"

// indexCursor serves matches that an engine enumerated up front.
type indexCursor struct {
	locs []Loc
	pos  int
}

func (c *indexCursor) Next(from int) (Loc, bool, error) {
	for c.pos < len(c.locs) && c.locs[c.pos].Start < from {
		c.pos++
	}
	if c.pos == len(c.locs) {
		return Loc{}, false, nil
	}
	return c.locs[c.pos], true, nil
}

// runeLocs converts [start, end) byte offsets into s to rune offsets.
// locs must be ordered and non-overlapping, which is what every FindAll
// style API returns, so a single forward scan over s suffices.
func runeLocs(s string, locs [][]int) []Loc {
	if len(locs) == 0 {
		return nil
	}
	out := make([]Loc, len(locs))
	var byteOff, runeOff int
	advance := func(target int) int {
		for byteOff < target {
			_, size := utf8.DecodeRuneInString(s[byteOff:])
			byteOff += size
			runeOff++
		}
		return runeOff
	}
	for i, loc := range locs {
		out[i].Start = advance(loc[0])
		out[i].End = advance(loc[1])
	}
	return out
}

package apply

// Region is a sub-range of the text searched independently. Negative values
// count from the end of the text and are resolved when matching runs, not
// when the region is created. End is inclusive either way.
type Region struct {
	Start int
	End   int
}

// Range is one match: inclusive character offsets of its first and last
// character. A zero-length match at i is recorded as (i, i-1).
type Range struct {
	First int
	Last  int
}

// resolve maps a possibly negative offset onto [0, length).
func resolve(index, length int) int {
	if index < 0 {
		return index + length
	}
	return index
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bounds resolves r against a text of the given length and returns the
// half-open slice [lo, hi) it covers. Bounds outside the text are clamped;
// a region whose start lies after its end covers nothing.
func (r Region) bounds(length int) (lo, hi int) {
	lo = clamp(resolve(r.Start, length), 0, length)
	hi = clamp(resolve(r.End, length)+1, 0, length)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Resolve returns r with negative offsets resolved against length and both
// ends clamped to the text. An empty match keeps Last == First-1.
func (r Range) Resolve(length int) Range {
	first := clamp(resolve(r.First, length), 0, length)
	last := clamp(resolve(r.Last, length), first-1, length-1)
	return Range{First: first, Last: last}
}

// wholeText is the default region list: one region spanning everything.
func wholeText(length int) []Region {
	return []Region{{Start: 0, End: length}}
}

package matcher

import "fmt"

// Flags is the parsed form of a flag string such as "gi".
type Flags struct {
	Global     bool // g: every match in a region, not just the first
	IgnoreCase bool // i
	Multiline  bool // m: ^ and $ match at line boundaries
	DotAll     bool // s: . matches newlines
	Unicode    bool // u
	Sticky     bool // y: matches must start where the previous one ended
}

// ParseFlags parses an ECMAScript-style flag string. Unknown or repeated
// letters are rejected.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, c := range s {
		var dst *bool
		switch c {
		case 'g':
			dst = &f.Global
		case 'i':
			dst = &f.IgnoreCase
		case 'm':
			dst = &f.Multiline
		case 's':
			dst = &f.DotAll
		case 'u':
			dst = &f.Unicode
		case 'y':
			dst = &f.Sticky
		default:
			return Flags{}, fmt.Errorf("invalid flag %q in %q", c, s)
		}
		if *dst {
			return Flags{}, fmt.Errorf("repeated flag %q in %q", c, s)
		}
		*dst = true
	}
	return f, nil
}

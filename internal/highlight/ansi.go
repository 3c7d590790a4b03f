package highlight

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles for terminal highlighting.
type Styles struct {
	Match    lipgloss.Style
	Filename lipgloss.Style
}

// NewStyles creates the default color styles. lipgloss drops colors when
// stdout is not a terminal; force keeps them anyway, for --color=always.
func NewStyles(force bool) Styles {
	r := lipgloss.DefaultRenderer()
	if force {
		r = lipgloss.NewRenderer(os.Stdout)
		r.SetColorProfile(termenv.ANSI)
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Match:    base.Foreground(lipgloss.Color("1")).Bold(true), // bold red
		Filename: base.Foreground(lipgloss.Color("5")),            // magenta
	}
}

// NoStyles returns styles with no coloring.
func NoStyles() Styles {
	return Styles{}
}

// Render applies style to s line by line, so multi-line matches are not
// padded into a block. An unset style returns s unchanged.
func Render(style lipgloss.Style, s string) string {
	if s == "" || isPlain(style) {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func isPlain(style lipgloss.Style) bool {
	return !style.GetBold() && style.GetForeground() == (lipgloss.NoColor{})
}

// ANSI renders every [first, last] range of text with style. Nothing is
// escaped. Ranges that overlap an earlier one are skipped.
func ANSI(text string, ranges [][2]int, style lipgloss.Style) string {
	runes := []rune(text)
	var b strings.Builder
	prev := 0
	for _, r := range ranges {
		first, last := r[0], r[1]+1
		if first < prev || first > len(runes) {
			continue
		}
		last = min(last, len(runes))
		b.WriteString(string(runes[prev:first]))
		if last > first {
			b.WriteString(Render(style, string(runes[first:last])))
		}
		prev = last
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

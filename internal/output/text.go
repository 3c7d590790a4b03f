package output

import (
	"strconv"
	"strings"

	"github.com/dl/regexapply/internal/highlight"
)

// Formatter appends the printable form of a result to buf. Callers pass
// buf[:0] to reuse the underlying array.
type Formatter interface {
	Format(buf []byte, result Result, multiFile bool) []byte
}

// TextFormatter prints results for a terminal or a pipe.
type TextFormatter struct {
	mode   Mode
	styles highlight.Styles
}

// NewTextFormatter creates a TextFormatter. Use highlight.NoStyles for
// uncolored output.
func NewTextFormatter(mode Mode, styles highlight.Styles) *TextFormatter {
	return &TextFormatter{mode: mode, styles: styles}
}

func (f *TextFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if result.Err != nil || result.Binary {
		return buf
	}

	if f.mode.Rendered() {
		if multiFile {
			buf = append(buf, highlight.Render(f.styles.Filename, result.FilePath)...)
			buf = append(buf, '\n')
		}
		buf = append(buf, result.Output...)
		if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
			buf = append(buf, '\n')
		}
		return buf
	}

	for i, r := range result.Ranges {
		if multiFile {
			buf = append(buf, highlight.Render(f.styles.Filename, result.FilePath)...)
			buf = append(buf, ':')
		}
		switch f.mode {
		case ModeRanges:
			buf = strconv.AppendInt(buf, int64(r.First), 10)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, int64(r.Last), 10)
		default:
			if i < len(result.Strings) {
				buf = append(buf, highlight.Render(f.styles.Match, result.Strings[i])...)
			}
		}
		buf = append(buf, '\n')
	}
	return buf
}

var _ Formatter = (*TextFormatter)(nil)

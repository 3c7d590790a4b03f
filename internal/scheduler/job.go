package scheduler

import (
	"time"

	"github.com/dl/regexapply/internal/apply"
	"github.com/dl/regexapply/internal/highlight"
	"github.com/dl/regexapply/internal/matcher"
	"github.com/dl/regexapply/internal/output"
)

// Job is the pattern configuration and rendering applied to every input.
type Job struct {
	Pattern string
	Flags   string
	Engine  matcher.Kind
	Timeout time.Duration
	Regions []apply.Region // nil searches the whole text

	Mode      output.Mode
	Markers   *highlight.Markers // ModeHighlight
	Template  string             // ModeReplace
	Separator string             // ModeJoin
	Prefix    string
	Postfix   string
	Styles    highlight.Styles // ModeANSI and list modes on a terminal
}

// Apply builds an Applier for text and collects its matches, warnings and,
// for rendering modes, the rendered output.
func (j *Job) Apply(path, text string) output.Result {
	a := apply.New(j.Pattern, j.Flags, text)
	a.SetEngine(j.Engine)
	a.SetTimeout(j.Timeout)
	a.SetRegions(j.Regions)

	res := output.Result{
		FilePath: path,
		Ranges:   a.MatchedRanges(),
		Strings:  a.MatchedStrings(),
		Warnings: a.Warnings(),
	}
	switch j.Mode {
	case output.ModeHighlight:
		res.Output = a.Highlight(j.Markers)
	case output.ModeReplace:
		res.Output = a.Replace(j.Template)
	case output.ModeJoin:
		res.Output = a.Join(j.Separator, j.Prefix, j.Postfix)
	case output.ModeANSI:
		res.Output = a.ANSI(j.Styles.Match)
	}
	return res
}

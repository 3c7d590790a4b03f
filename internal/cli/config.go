package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dl/regexapply/internal/apply"
	"github.com/dl/regexapply/internal/highlight"
	"github.com/dl/regexapply/internal/matcher"
	"github.com/dl/regexapply/internal/output"
	"github.com/dl/regexapply/internal/scheduler"
)

// Config holds all configuration for a regexapply run.
type Config struct {
	Patterns []string
	Flags    string
	Engine   string
	Regions  []string // "start:end", inclusive, negative counts from the end
	Timeout  time.Duration

	Mode      string
	Before    *string // nil when not given
	After     *string
	Template  string
	Separator string
	Prefix    string
	Postfix   string

	JSONOutput bool
	Color      string // auto, always or never

	Recursive     bool
	NoIgnore      bool
	Hidden        bool
	Globs         []string
	Workers       int
	MmapThreshold int64
	WatchMode     bool
	Paths         []string
}

// DefaultConfig returns the configuration used when no flag is given.
func DefaultConfig() Config {
	return Config{
		Flags:         "g",
		Engine:        matcher.KindAuto.String(),
		Mode:          output.ModeMatches.String(),
		Separator:     `\n`,
		Color:         "auto",
		MmapThreshold: 1 << 20,
	}
}

// Validate checks that the config is valid and returns an error if not.
// Pattern and flag syntax is not checked here: a pattern that fails to
// compile is reported as a warning while running.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 {
		return fmt.Errorf("no pattern specified")
	}
	if _, err := matcher.ParseKind(c.Engine); err != nil {
		return err
	}
	mode, err := output.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	if _, err := parseRegions(c.Regions); err != nil {
		return err
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color setting %q (want auto, always or never)", c.Color)
	}
	if (c.Before != nil || c.After != nil) && mode != output.ModeHighlight {
		return fmt.Errorf("--before and --after need --mode highlight")
	}
	if c.Template != "" && mode != output.ModeReplace {
		return fmt.Errorf("--template needs --mode replace")
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}
	if c.MmapThreshold < 0 {
		return fmt.Errorf("invalid mmap threshold: %d", c.MmapThreshold)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %v", c.Timeout)
	}
	if c.WatchMode && len(c.Paths) == 0 {
		return fmt.Errorf("--watch needs at least one path")
	}
	return nil
}

// Job builds the per-input job. Validate must have succeeded.
func (c *Config) Job(styles highlight.Styles) (*scheduler.Job, error) {
	source, err := matcher.Combine(c.Patterns)
	if err != nil {
		return nil, err
	}
	kind, err := matcher.ParseKind(c.Engine)
	if err != nil {
		return nil, err
	}
	mode, err := output.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	regions, err := parseRegions(c.Regions)
	if err != nil {
		return nil, err
	}

	job := &scheduler.Job{
		Pattern:   source,
		Flags:     c.Flags,
		Engine:    kind,
		Timeout:   c.Timeout,
		Regions:   regions,
		Mode:      mode,
		Template:  c.Template,
		Separator: c.Separator,
		Prefix:    c.Prefix,
		Postfix:   c.Postfix,
		Styles:    styles,
	}
	if mode == output.ModeHighlight {
		job.Markers = &highlight.Markers{Before: c.Before, After: c.After}
		if c.Before == nil && c.After == nil {
			job.Markers = highlight.Wrap("<mark>", "</mark>")
		}
	}
	return job, nil
}

func parseRegions(specs []string) ([]apply.Region, error) {
	var regions []apply.Region
	for _, s := range specs {
		r, err := ParseRegion(s)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// ParseRegion parses "start:end". Either side may be negative; an empty
// start means 0 and an empty end means the last character.
func ParseRegion(s string) (apply.Region, error) {
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return apply.Region{}, fmt.Errorf("invalid region %q: want start:end", s)
	}
	r := apply.Region{Start: 0, End: -1}
	var err error
	if startStr = strings.TrimSpace(startStr); startStr != "" {
		if r.Start, err = strconv.Atoi(startStr); err != nil {
			return apply.Region{}, fmt.Errorf("invalid region start %q: %w", startStr, err)
		}
	}
	if endStr = strings.TrimSpace(endStr); endStr != "" {
		if r.End, err = strconv.Atoi(endStr); err != nil {
			return apply.Region{}, fmt.Errorf("invalid region end %q: %w", endStr, err)
		}
	}
	return r, nil
}

// Command regexapply applies a regular expression to text and prints the
// matches, their ranges, or the text highlighted, rewritten or joined.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dl/regexapply/internal/cli"
)

// run is replaced in tests.
var run = cli.Run

func main() {
	args := append(cli.LoadConfigArgs(), os.Args[1:]...)
	os.Exit(execute(args))
}

func execute(args []string) int {
	code := cli.ExitError
	cmd := newCommand(&code)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return cli.ExitError
	}
	return code
}

func newCommand(code *int) *cobra.Command {
	cfg := cli.DefaultConfig()
	var before, after string

	cmd := &cobra.Command{
		Use:   "regexapply [flags] [PATTERN] [PATH...]",
		Short: "Apply a regular expression to text",
		Long: `regexapply finds every match of a pattern in files or stdin and prints
the matches, their character ranges, or the text with matches highlighted
as HTML, replaced through a template, or joined.

Without -e the first argument is the pattern. Without paths stdin is read.
Default arguments are read from $REGEXAPPLY_CONFIG_PATH or ~/.regexapply.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.Patterns) == 0 {
				if len(args) == 0 {
					return cmd.Usage()
				}
				cfg.Patterns, args = args[:1], args[1:]
			}
			cfg.Paths = args
			if cmd.Flags().Changed("before") {
				cfg.Before = &before
			}
			if cmd.Flags().Changed("after") {
				cfg.After = &after
			}
			*code = run(cfg)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&cfg.Patterns, "regexp", "e", nil, "pattern to apply (repeatable, combined as alternatives)")
	f.StringVar(&cfg.Flags, "flags", cfg.Flags, "pattern flags: g i m s u y")
	f.StringVar(&cfg.Engine, "engine", cfg.Engine, "regex engine: auto, ecma, re2, pcre, coregex")
	f.StringArrayVar(&cfg.Regions, "region", nil, "search only start:end (inclusive, negative counts from the end; repeatable)")
	f.DurationVar(&cfg.Timeout, "timeout", 0, "per-match timeout (ecma engine)")

	f.StringVar(&cfg.Mode, "mode", cfg.Mode, "output: matches, ranges, highlight, replace, join, ansi")
	f.StringVar(&before, "before", "", "highlight: text inserted before each match")
	f.StringVar(&after, "after", "", "highlight: text inserted after each match")
	f.StringVar(&cfg.Template, "template", "", `replace: template with \I, \-I, \&, \-& and +k/-k shifts`)
	f.StringVar(&cfg.Separator, "separator", cfg.Separator, "join: separator between matches")
	f.StringVar(&cfg.Prefix, "prefix", "", "join: text before each match")
	f.StringVar(&cfg.Postfix, "postfix", "", "join: text after each match")

	f.BoolVar(&cfg.JSONOutput, "json", false, "print one JSON object per input")
	f.StringVar(&cfg.Color, "color", cfg.Color, "color output: auto, always, never")

	f.BoolVarP(&cfg.Recursive, "recursive", "r", false, "walk directories")
	f.BoolVar(&cfg.NoIgnore, "no-ignore", false, "do not read .gitignore files")
	f.BoolVar(&cfg.Hidden, "hidden", false, "include hidden files and directories")
	f.StringArrayVarP(&cfg.Globs, "glob", "g", nil, "only files whose name matches (repeatable)")
	f.IntVarP(&cfg.Workers, "workers", "j", 0, "parallel workers (0 = 2x CPUs)")
	f.Int64Var(&cfg.MmapThreshold, "mmap-threshold", cfg.MmapThreshold, "mmap files at least this large")
	f.BoolVarP(&cfg.WatchMode, "watch", "w", false, "re-apply to files when they change")

	return cmd
}

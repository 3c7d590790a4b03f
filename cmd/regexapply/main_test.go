package main

import (
	"io"
	"slices"
	"testing"
	"time"

	"github.com/dl/regexapply/internal/cli"
)

// capture swaps run for a stub that records the config it receives.
func capture(t *testing.T, code int) *cli.Config {
	t.Helper()
	got := new(cli.Config)
	orig := run
	run = func(cfg cli.Config) int {
		*got = cfg
		return code
	}
	t.Cleanup(func() { run = orig })
	return got
}

func TestExecute_PositionalPattern(t *testing.T) {
	got := capture(t, 0)
	if code := execute([]string{"fo+", "a.txt", "b.txt"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !slices.Equal(got.Patterns, []string{"fo+"}) {
		t.Errorf("Patterns = %q", got.Patterns)
	}
	if !slices.Equal(got.Paths, []string{"a.txt", "b.txt"}) {
		t.Errorf("Paths = %q", got.Paths)
	}
	if got.Flags != "g" || got.Mode != "matches" || got.Separator != `\n` || got.Color != "auto" {
		t.Errorf("defaults = %+v", got)
	}
	if got.Before != nil || got.After != nil {
		t.Error("markers set without flags")
	}
}

func TestExecute_Flags(t *testing.T) {
	got := capture(t, 1)
	code := execute([]string{
		"-e", "a", "-e", "b",
		"--flags", "gi",
		"--engine", "pcre",
		"--region", "0:4", "--region=-3:",
		"--mode", "highlight",
		"--before", "",
		"--after", "</b>",
		"--json", "-r", "--hidden", "-g", "*.go",
		"-j", "3", "--timeout", "50ms", "-w",
		"src",
	})
	if code != 1 {
		t.Errorf("exit code = %d, want the stub's 1", code)
	}
	if !slices.Equal(got.Patterns, []string{"a", "b"}) || !slices.Equal(got.Paths, []string{"src"}) {
		t.Errorf("Patterns = %q, Paths = %q", got.Patterns, got.Paths)
	}
	if !slices.Equal(got.Regions, []string{"0:4", "-3:"}) {
		t.Errorf("Regions = %q", got.Regions)
	}
	if got.Before == nil || *got.Before != "" || got.After == nil || *got.After != "</b>" {
		t.Errorf("markers = %v, %v", got.Before, got.After)
	}
	if got.Flags != "gi" || got.Engine != "pcre" || got.Mode != "highlight" {
		t.Errorf("flags/engine/mode = %q/%q/%q", got.Flags, got.Engine, got.Mode)
	}
	if !got.JSONOutput || !got.Recursive || !got.Hidden || !got.WatchMode {
		t.Errorf("bool flags = %+v", got)
	}
	if got.Workers != 3 || got.Timeout != 50*time.Millisecond || !slices.Equal(got.Globs, []string{"*.go"}) {
		t.Errorf("workers/timeout/globs = %d/%v/%q", got.Workers, got.Timeout, got.Globs)
	}
}

func TestExecute_UnknownFlag(t *testing.T) {
	capture(t, 0)
	cmd := newCommand(new(int))
	cmd.SetErr(io.Discard)
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--bogus", "x"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestExecute_NoArgs(t *testing.T) {
	got := capture(t, 0)
	code := new(int)
	*code = cli.ExitError
	cmd := newCommand(code)
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if *code != cli.ExitError || got.Patterns != nil {
		t.Errorf("run called without a pattern: code = %d", *code)
	}
}

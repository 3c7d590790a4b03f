package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dl/regexapply/internal/apply"
	"github.com/dl/regexapply/internal/highlight"
	"github.com/dl/regexapply/internal/matcher"
	"github.com/dl/regexapply/internal/output"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Patterns = []string{"a+"}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	marker := "<b>"
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no pattern", func(c *Config) { c.Patterns = nil }, "no pattern"},
		{"empty pattern allowed", func(c *Config) { c.Patterns = []string{""} }, ""},
		{"bad engine", func(c *Config) { c.Engine = "perl" }, "unknown engine"},
		{"bad mode", func(c *Config) { c.Mode = "lines" }, "unknown mode"},
		{"bad region", func(c *Config) { c.Regions = []string{"3"} }, "invalid region"},
		{"bad color", func(c *Config) { c.Color = "sometimes" }, "invalid color"},
		{"markers need highlight", func(c *Config) { c.Before = &marker }, "--mode highlight"},
		{"markers with highlight", func(c *Config) { c.Before = &marker; c.Mode = "highlight" }, ""},
		{"template needs replace", func(c *Config) { c.Template = `\I` }, "--mode replace"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "worker"},
		{"negative mmap", func(c *Config) { c.MmapThreshold = -1 }, "mmap"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"watch needs paths", func(c *Config) { c.WatchMode = true }, "--watch"},
		{"bad flags are not fatal", func(c *Config) { c.Flags = "gq" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    apply.Region
		wantErr bool
	}{
		{"2:5", apply.Region{Start: 2, End: 5}, false},
		{"-3:-1", apply.Region{Start: -3, End: -1}, false},
		{":4", apply.Region{Start: 0, End: 4}, false},
		{"4:", apply.Region{Start: 4, End: -1}, false},
		{":", apply.Region{Start: 0, End: -1}, false},
		{" 1 : 2 ", apply.Region{Start: 1, End: 2}, false},
		{"4", apply.Region{}, true},
		{"a:1", apply.Region{}, true},
		{"1:b", apply.Region{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRegion(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRegion(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestConfig_Job(t *testing.T) {
	cfg := validConfig()
	cfg.Patterns = []string{"foo", "ba+r"}
	cfg.Engine = "pcre"
	cfg.Regions = []string{"0:9", "-4:"}
	cfg.Mode = "highlight"

	job, err := cfg.Job(highlight.NoStyles())
	if err != nil {
		t.Fatal(err)
	}
	if job.Pattern != "(?:foo)|(?:ba+r)" {
		t.Errorf("Pattern = %q", job.Pattern)
	}
	if job.Engine != matcher.KindPCRE || job.Mode != output.ModeHighlight {
		t.Errorf("Engine = %v, Mode = %v", job.Engine, job.Mode)
	}
	want := []apply.Region{{Start: 0, End: 9}, {Start: -4, End: -1}}
	if !slices.Equal(job.Regions, want) {
		t.Errorf("Regions = %v, want %v", job.Regions, want)
	}
	if job.Markers == nil || *job.Markers.Before != "<mark>" || *job.Markers.After != "</mark>" {
		t.Errorf("default markers not set: %+v", job.Markers)
	}

	before := "["
	cfg.Before = &before
	job, _ = cfg.Job(highlight.NoStyles())
	if job.Markers.After != nil || *job.Markers.Before != "[" {
		t.Errorf("explicit markers = %+v", job.Markers)
	}
}

func TestReadArgsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := "# defaults\n--engine=re2\n\n--color never\n--template <\\I> x\n-r\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := readArgsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"--engine=re2", "--color", "never", "--template", `<\I> x`, "-r"}
	if !slices.Equal(got, want) {
		t.Errorf("readArgsFile() = %q, want %q", got, want)
	}
}

func TestLoadConfigArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regexapply")
	os.WriteFile(path, []byte("--hidden\n"), 0644)

	t.Setenv("REGEXAPPLY_CONFIG_PATH", path)
	if got := LoadConfigArgs(); !slices.Equal(got, []string{"--hidden"}) {
		t.Errorf("LoadConfigArgs() = %q", got)
	}

	t.Setenv("REGEXAPPLY_CONFIG_PATH", path+".missing")
	if got := LoadConfigArgs(); got != nil {
		t.Errorf("missing file gave %q", got)
	}

	t.Setenv("REGEXAPPLY_CONFIG_PATH", "")
	t.Setenv("HOME", t.TempDir())
	if got := ConfigPath(); filepath.Base(got) != ".regexapply" {
		t.Errorf("ConfigPath() = %q", got)
	}
}

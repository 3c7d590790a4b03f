package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dl/regexapply/internal/apply"
	"github.com/dl/regexapply/internal/highlight"
	"github.com/dl/regexapply/internal/input"
	"github.com/dl/regexapply/internal/matcher"
	"github.com/dl/regexapply/internal/output"
	"github.com/dl/regexapply/internal/walker"
)

func TestJob_Apply(t *testing.T) {
	text := "aaa bbb aaa"
	tests := []struct {
		name       string
		job        Job
		wantOutput string
		wantRanges []apply.Range
	}{
		{
			name:       "matches",
			job:        Job{Pattern: "a+", Flags: "g"},
			wantRanges: []apply.Range{{First: 0, Last: 2}, {First: 8, Last: 10}},
		},
		{
			name:       "highlight",
			job:        Job{Pattern: "a+", Flags: "g", Mode: output.ModeHighlight, Markers: highlight.Wrap("<b>", "</b>")},
			wantOutput: "<b>aaa</b> bbb <b>aaa</b>",
			wantRanges: []apply.Range{{First: 0, Last: 2}, {First: 8, Last: 10}},
		},
		{
			name:       "replace",
			job:        Job{Pattern: "a+", Flags: "g", Mode: output.ModeReplace, Template: `#\I`},
			wantOutput: "#1 bbb #2",
			wantRanges: []apply.Range{{First: 0, Last: 2}, {First: 8, Last: 10}},
		},
		{
			name:       "join",
			job:        Job{Pattern: `\w+`, Flags: "g", Mode: output.ModeJoin, Separator: ",", Prefix: "[", Postfix: "]"},
			wantOutput: "[aaa],[bbb],[aaa]",
			wantRanges: []apply.Range{{First: 0, Last: 2}, {First: 4, Last: 6}, {First: 8, Last: 10}},
		},
		{
			name:       "ansi without styles",
			job:        Job{Pattern: "b+", Flags: "g", Mode: output.ModeANSI},
			wantOutput: text,
			wantRanges: []apply.Range{{First: 4, Last: 6}},
		},
		{
			name:       "region and engine",
			job:        Job{Pattern: "a+", Flags: "g", Engine: matcher.KindRE2, Regions: []apply.Region{{Start: -3, End: -1}}},
			wantRanges: []apply.Range{{First: 8, Last: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.job.Apply("f.txt", text)
			if res.FilePath != "f.txt" {
				t.Errorf("FilePath = %q", res.FilePath)
			}
			if res.Output != tt.wantOutput {
				t.Errorf("Output = %q, want %q", res.Output, tt.wantOutput)
			}
			if !slices.Equal(res.Ranges, tt.wantRanges) {
				t.Errorf("Ranges = %v, want %v", res.Ranges, tt.wantRanges)
			}
			if len(res.Strings) != len(res.Ranges) {
				t.Errorf("%d strings for %d ranges", len(res.Strings), len(res.Ranges))
			}
		})
	}
}

func TestJob_ApplyWarning(t *testing.T) {
	res := (&Job{Pattern: "(", Flags: "g"}).Apply("", "text")
	if len(res.Warnings) != 1 || res.HasMatch() {
		t.Errorf("Warnings = %q, HasMatch = %v", res.Warnings, res.HasMatch())
	}
}

func TestScheduler_Run(t *testing.T) {
	dir := t.TempDir()
	var entries []walker.FileEntry
	for i := range 20 {
		path := filepath.Join(dir, fmt.Sprintf("f%02d.txt", i))
		content := "nothing here"
		if i%2 == 0 {
			content = fmt.Sprintf("hit %d", i)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, walker.FileEntry{Path: path})
	}
	binPath := filepath.Join(dir, "bin")
	os.WriteFile(binPath, []byte("hit\x00"), 0644)
	entries = append(entries, walker.FileEntry{Path: binPath}, walker.FileEntry{Path: filepath.Join(dir, "missing")})

	files := make(chan walker.FileEntry, len(entries))
	for _, e := range entries {
		files <- e
	}
	close(files)

	s := New(4, &Job{Pattern: "hit", Flags: "g"}, input.NewBufferedReader())
	var seqs []int
	matched, binary, failed := 0, 0, 0
	for r := range s.Run(files) {
		seqs = append(seqs, r.SeqNum)
		switch {
		case r.Err != nil:
			failed++
		case r.Binary:
			binary++
		case r.HasMatch():
			matched++
		}
	}

	slices.Sort(seqs)
	for i, seq := range seqs {
		if seq != i+1 {
			t.Fatalf("sequence numbers = %v, want 1..%d", seqs, len(entries))
		}
	}
	if len(seqs) != len(entries) {
		t.Errorf("got %d results, want %d", len(seqs), len(entries))
	}
	if matched != 10 || binary != 1 || failed != 1 {
		t.Errorf("matched=%d binary=%d failed=%d, want 10/1/1", matched, binary, failed)
	}
}

func TestScheduler_OrderPreserved(t *testing.T) {
	dir := t.TempDir()
	files := make(chan walker.FileEntry, 5)
	var want []string
	for i := range 5 {
		path := filepath.Join(dir, fmt.Sprintf("%d.txt", i))
		os.WriteFile(path, []byte("x"), 0644)
		files <- walker.FileEntry{Path: path}
		want = append(want, path)
	}
	close(files)

	got := make([]string, 5)
	for r := range New(3, &Job{Pattern: "x", Flags: "g"}, input.NewBufferedReader()).Run(files) {
		got[r.SeqNum-1] = r.FilePath
	}
	if !slices.Equal(got, want) {
		t.Errorf("seq order = %v, want %v", got, want)
	}
}

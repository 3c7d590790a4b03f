package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReaders_Read(t *testing.T) {
	content := []byte("hello world\nline two\n")
	readers := map[string]Reader{
		"buffered":       NewBufferedReader(),
		"mmap":           NewMmapReader(),
		"adaptive small": NewAdaptiveReader(1 << 20),
		"adaptive large": NewAdaptiveReader(1),
	}

	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "test.txt", content)
			result, err := r.Read(path)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if !bytes.Equal(result.Data, content) {
				t.Errorf("data = %q, want %q", result.Data, content)
			}
			if err := result.Closer(); err != nil {
				t.Errorf("Closer() error: %v", err)
			}
		})
	}
}

func TestReaders_EmptyFile(t *testing.T) {
	for name, r := range map[string]Reader{"buffered": NewBufferedReader(), "mmap": NewMmapReader()} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "empty.txt", nil)
			result, err := r.Read(path)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			defer result.Closer()
			if result.Data != nil {
				t.Errorf("data = %v, want nil for empty file", result.Data)
			}
		})
	}
}

func TestReaders_NonexistentFile(t *testing.T) {
	for name, r := range map[string]Reader{
		"buffered": NewBufferedReader(),
		"mmap":     NewMmapReader(),
		"adaptive": NewAdaptiveReader(0),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := r.Read("/nonexistent/path/file.txt"); err == nil {
				t.Error("expected error for nonexistent file")
			}
		})
	}
}

func TestMmapReader_LargeFile(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789abcdef\n"), 64*1024)
	path := writeFile(t, "large.txt", content)

	result, err := NewMmapReader().Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer result.Closer()
	if !bytes.Equal(result.Data, content) {
		t.Errorf("got %d bytes, want %d", len(result.Data), len(content))
	}
}

func TestReadText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
		wantOK  bool
	}{
		{"utf8", []byte("héllo wörld"), "héllo wörld", true},
		{"binary", []byte("abc\x00def"), "", false},
		{"invalid utf8 replaced", []byte("a\xffb"), "a�b", true},
		{"empty", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "f.txt", tt.content)
			got, ok, err := ReadText(NewBufferedReader(), path)
			if err != nil {
				t.Fatalf("ReadText() error: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ReadText() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestReadText_OutlivesBuffer(t *testing.T) {
	r := NewBufferedReader()
	first, _, err := ReadText(r, writeFile(t, "a.txt", []byte("first file")))
	if err != nil {
		t.Fatal(err)
	}
	// The pooled buffer is reused by the next read.
	if _, _, err := ReadText(r, writeFile(t, "b.txt", []byte("XXXXXXXXXX"))); err != nil {
		t.Fatal(err)
	}
	if first != "first file" {
		t.Errorf("text changed after buffer reuse: %q", first)
	}
}

func TestStreamReader(t *testing.T) {
	r := NewStreamReader(strings.NewReader("from a pipe"))
	text, ok, err := ReadText(r, "")
	if err != nil || !ok || text != "from a pipe" {
		t.Errorf("ReadText() = %q, %v, %v", text, ok, err)
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("plain text")) {
		t.Error("plain text reported as binary")
	}
	if !IsBinary([]byte{'a', 0, 'b'}) {
		t.Error("NUL byte not detected")
	}
	late := append(bytes.Repeat([]byte("a"), 9000), 0)
	if IsBinary(late) {
		t.Error("NUL past 8KB should be ignored")
	}
}

func BenchmarkBufferedReader(b *testing.B) {
	dir := b.TempDir()
	path := filepath.Join(dir, "bench.txt")
	os.WriteFile(path, bytes.Repeat([]byte("benchmark line\n"), 4096), 0644)

	r := NewBufferedReader()
	b.ResetTimer()
	for b.Loop() {
		res, err := r.Read(path)
		if err != nil {
			b.Fatal(err)
		}
		res.Closer()
	}
}

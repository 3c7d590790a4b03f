package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreLayers_BasicMatching(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.log\nbuild/\n!important.log\n"), 0644)

	layers := descend(nil, dir)

	tests := []struct {
		name  string
		path  string
		isDir bool
		want  bool
	}{
		{"matches glob", filepath.Join(dir, "app.log"), false, true},
		{"no match", filepath.Join(dir, "app.txt"), false, false},
		{"dir pattern matches dir", filepath.Join(dir, "build"), true, true},
		{"negation", filepath.Join(dir, "important.log"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isIgnored(layers, tt.path, tt.isDir)
			if got != tt.want {
				t.Errorf("isIgnored(%q, isDir=%v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestIgnoreLayers_Nested(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	os.Mkdir(sub, 0755)
	os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.tmp\n"), 0644)
	os.WriteFile(filepath.Join(sub, ".gitignore"), []byte("*.dat\n"), 0644)

	rootLayers := descend(nil, root)
	subLayers := descend(rootLayers, sub)

	if !isIgnored(subLayers, filepath.Join(sub, "test.tmp"), false) {
		t.Error("expected root .gitignore to apply in sub")
	}
	if !isIgnored(subLayers, filepath.Join(sub, "test.dat"), false) {
		t.Error("expected sub .gitignore to match *.dat")
	}
	if isIgnored(rootLayers, filepath.Join(root, "test.dat"), false) {
		t.Error("sub rules leaked into the parent layers")
	}
	if len(rootLayers) != 1 {
		t.Errorf("descend modified parent: %d layers", len(rootLayers))
	}
}

func TestIgnoreLayers_NoGitignore(t *testing.T) {
	dir := t.TempDir()
	layers := descend(nil, dir)
	if isIgnored(layers, filepath.Join(dir, "anything.txt"), false) {
		t.Error("expected no ignoring when .gitignore doesn't exist")
	}
}

package walker

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreLayer holds the compiled .gitignore of one directory. parser is nil
// when the directory has no .gitignore or it failed to parse.
type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

// loadIgnoreLayer compiles dir/.gitignore.
func loadIgnoreLayer(dir string) ignoreLayer {
	parser, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return ignoreLayer{dir: dir}
	}
	return ignoreLayer{dir: dir, parser: parser}
}

// descend returns the layers that apply inside dir: a copy of parent with
// dir's own rules appended. Compiled parsers are immutable, so the copies
// share them safely across walker goroutines.
func descend(parent []ignoreLayer, dir string) []ignoreLayer {
	layers := make([]ignoreLayer, len(parent), len(parent)+1)
	copy(layers, parent)
	return append(layers, loadIgnoreLayer(dir))
}

// isIgnored reports whether any layer excludes fullPath. Each layer matches
// against the path relative to its own directory.
func isIgnored(layers []ignoreLayer, fullPath string, isDir bool) bool {
	for _, layer := range layers {
		if layer.parser == nil {
			continue
		}
		rel, err := filepath.Rel(layer.dir, fullPath)
		if err != nil {
			continue
		}
		if isDir {
			rel += "/"
		}
		if layer.parser.MatchesPath(rel) {
			return true
		}
	}
	return false
}

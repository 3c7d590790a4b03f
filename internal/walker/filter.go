package walker

import (
	"path/filepath"
	"strings"
)

// Filter decides which directory entries the walker yields.
type Filter struct {
	Hidden bool     // include dot files and dot directories
	Globs  []string // when set, only files whose base name matches one glob
}

// skipDir reports whether a directory should not be descended into. VCS
// metadata is always skipped.
func (f Filter) skipDir(name string) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	return !f.Hidden && strings.HasPrefix(name, ".")
}

// skipFile reports whether a regular file should not be yielded.
func (f Filter) skipFile(name string) bool {
	if !f.Hidden && strings.HasPrefix(name, ".") {
		return true
	}
	if hasBinaryExtension(name) {
		return true
	}
	if len(f.Globs) == 0 {
		return false
	}
	for _, g := range f.Globs {
		if ok, _ := filepath.Match(g, name); ok {
			return false
		}
	}
	return true
}

// hasBinaryExtension reports extensions whose content is never text worth
// matching against. Versioned shared libraries (libfoo.so.1.2) count too.
func hasBinaryExtension(name string) bool {
	if strings.Contains(name, ".so.") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := binaryExts[ext]
	return ok
}

var binaryExts = map[string]struct{}{
	".a": {}, ".o": {}, ".so": {}, ".dylib": {}, ".dll": {}, ".exe": {},
	".bin": {}, ".class": {}, ".pyc": {}, ".wasm": {},
	".gz": {}, ".bz2": {}, ".xz": {}, ".zst": {}, ".zip": {}, ".tar": {},
	".7z": {}, ".rar": {}, ".jar": {}, ".deb": {}, ".rpm": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	".webp": {}, ".tiff": {},
	".mp3": {}, ".mp4": {}, ".ogg": {}, ".flac": {}, ".wav": {}, ".mkv": {},
	".webm": {}, ".mov": {},
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {},
	".pdf": {}, ".docx": {}, ".xlsx": {}, ".pptx": {},
	".db": {}, ".sqlite": {}, ".swp": {},
}

// AcceptFile reports whether a file with this base name would be yielded by
// a walk, ignore rules aside.
func (f Filter) AcceptFile(name string) bool {
	return !f.skipFile(name)
}

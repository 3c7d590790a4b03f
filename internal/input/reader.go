package input

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ReadResult holds the data read from a file and a cleanup function.
// Data may point into a pooled buffer or a mapping; it is only valid until
// Closer is called.
type ReadResult struct {
	Data   []byte
	Closer func() error
}

// noopCloser is a package-level no-op closer to avoid allocating a func literal per file.
func noopCloser() error { return nil }

// Reader reads file content into a byte slice.
type Reader interface {
	Read(path string) (ReadResult, error)
}

// ReadText reads path through r and returns its content as a string that
// outlives the read buffer. Binary content is reported through ok=false and
// no text. Invalid UTF-8 sequences are replaced with U+FFFD so character
// offsets stay well defined.
func ReadText(r Reader, path string) (text string, ok bool, err error) {
	res, err := r.Read(path)
	if err != nil {
		return "", false, err
	}
	defer res.Closer()

	if IsBinary(res.Data) {
		return "", false, nil
	}
	if utf8.Valid(res.Data) {
		return string(res.Data), true, nil
	}
	return strings.ToValidUTF8(string(res.Data), string(utf8.RuneError)), true, nil
}

// IsBinary checks if data appears to be binary by scanning for NUL bytes
// in the first 8KB, matching GNU grep behavior.
func IsBinary(data []byte) bool {
	limit := min(len(data), 8192)
	return bytes.IndexByte(data[:limit], 0) >= 0
}

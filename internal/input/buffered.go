package input

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// bufPool pools read buffers to reduce per-file heap allocations.
// Buffers are stored as *[]byte so the pool can reuse the backing array
// even when the slice grows beyond its original capacity.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// BufferedReader reads whole files with pread into pooled buffers.
type BufferedReader struct{}

// NewBufferedReader creates a new BufferedReader.
func NewBufferedReader() *BufferedReader {
	return &BufferedReader{}
}

func (r *BufferedReader) Read(path string) (ReadResult, error) {
	fd, size, err := openSized(path)
	if err != nil || size == 0 {
		return ReadResult{Closer: noopCloser}, err
	}
	return readBuffered(fd, size, path)
}

// readBuffered reads size bytes from fd into a pooled buffer and closes fd.
func readBuffered(fd int, size int64, path string) (ReadResult, error) {
	defer unix.Close(fd)

	bp := bufPool.Get().(*[]byte)
	buf := *bp
	if int64(cap(buf)) < size {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}
	release := func() error {
		*bp = buf[:0]
		bufPool.Put(bp)
		return nil
	}

	var n int
	for int64(n) < size {
		got, err := unix.Pread(fd, buf[n:], int64(n))
		if err != nil {
			release()
			return ReadResult{}, fmt.Errorf("read %s: %w", path, err)
		}
		if got == 0 {
			break // file shrank under us
		}
		n += got
	}
	return ReadResult{Data: buf[:n], Closer: release}, nil
}

// openSized opens path read-only and returns the descriptor with the file
// size. Empty files are closed right away and come back with size 0.
func openSized(path string) (int, int64, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
	}
	if err != nil {
		return -1, 0, fmt.Errorf("open %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Size == 0 {
		unix.Close(fd)
		return -1, 0, nil
	}
	return fd, stat.Size, nil
}

package input

import (
	"golang.org/x/sys/unix"
)

// MmapReader reads files by memory-mapping them.
type MmapReader struct{}

// NewMmapReader creates a new MmapReader.
func NewMmapReader() *MmapReader {
	return &MmapReader{}
}

func (r *MmapReader) Read(path string) (ReadResult, error) {
	fd, size, err := openSized(path)
	if err != nil || size == 0 {
		return ReadResult{Closer: noopCloser}, err
	}
	return readMmap(fd, size, path)
}

// readMmap maps fd read-only. If mapping fails the file is read into a
// buffer instead. The descriptor is closed once the mapping exists.
func readMmap(fd int, size int64, path string) (ReadResult, error) {
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE|unix.MAP_POPULATE)
	if err != nil {
		return readBuffered(fd, size, path)
	}
	unix.Close(fd)
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return ReadResult{
		Data: data,
		Closer: func() error {
			return unix.Munmap(data)
		},
	}, nil
}

// NewAdaptiveReader returns a Reader that maps files of at least
// mmapThreshold bytes and reads smaller ones into pooled buffers.
func NewAdaptiveReader(mmapThreshold int64) Reader {
	return &adaptiveReader{threshold: mmapThreshold}
}

type adaptiveReader struct {
	threshold int64
}

func (r *adaptiveReader) Read(path string) (ReadResult, error) {
	fd, size, err := openSized(path)
	if err != nil || size == 0 {
		return ReadResult{Closer: noopCloser}, err
	}
	if r.threshold > 0 && size >= r.threshold {
		return readMmap(fd, size, path)
	}
	return readBuffered(fd, size, path)
}

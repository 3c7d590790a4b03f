package output

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes to a file descriptor with writev.
type Writer struct {
	fd int
}

// NewWriter creates a Writer for f, usually os.Stdout.
func NewWriter(f *os.File) *Writer {
	return &Writer{fd: int(f.Fd())}
}

// Write writes all of data, retrying short writes.
func (w *Writer) Write(data []byte) (int, error) {
	total := 0
	for len(data) > 0 {
		n, err := unix.Writev(w.fd, [][]byte{data})
		total += n
		if err != nil {
			if err == unix.EINTR {
				data = data[n:]
				continue
			}
			return total, err
		}
		data = data[n:]
	}
	return total, nil
}

// OrderedWriter writes results in sequence-number order so output is
// deterministic with parallel workers.
type OrderedWriter struct {
	w         io.Writer
	formatter Formatter
	multiFile bool
	buf       []byte
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w io.Writer, f Formatter, multiFile bool) *OrderedWriter {
	return &OrderedWriter{w: w, formatter: f, multiFile: multiFile}
}

// WriteOrdered consumes results until the channel closes. Results arriving
// early are held until their predecessors are written. onResult, if set, sees
// every result as it is written. The first write error is returned after the
// channel is drained.
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onResult func(Result)) error {
	nextSeq := 1
	pending := make(map[int]Result)
	var werr error

	emit := func(r Result) {
		if onResult != nil {
			onResult(r)
		}
		if err := ow.WriteResult(r); err != nil && werr == nil {
			werr = err
		}
	}

	for r := range results {
		if r.SeqNum != nextSeq {
			pending[r.SeqNum] = r
			continue
		}
		emit(r)
		nextSeq++
		for {
			p, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			emit(p)
			nextSeq++
		}
	}
	return werr
}

// WriteResult formats and writes a single result immediately.
func (ow *OrderedWriter) WriteResult(r Result) error {
	ow.buf = ow.formatter.Format(ow.buf[:0], r, ow.multiFile)
	if len(ow.buf) == 0 {
		return nil
	}
	_, err := ow.w.Write(ow.buf)
	return err
}

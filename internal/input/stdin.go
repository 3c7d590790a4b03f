package input

import "io"

// StdinReader reads everything from a stream such as stdin. The path
// argument of Read is ignored.
type StdinReader struct {
	r io.Reader
}

// NewStreamReader creates a StdinReader over an arbitrary stream.
func NewStreamReader(r io.Reader) *StdinReader {
	return &StdinReader{r: r}
}

func (r *StdinReader) Read(_ string) (ReadResult, error) {
	data, err := io.ReadAll(r.r)
	if err != nil {
		return ReadResult{}, err
	}
	return ReadResult{Data: data, Closer: noopCloser}, nil
}

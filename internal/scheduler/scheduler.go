// Package scheduler applies a Job to many files on a pool of workers.
package scheduler

import (
	"runtime"
	"sync"

	"github.com/dl/regexapply/internal/input"
	"github.com/dl/regexapply/internal/output"
	"github.com/dl/regexapply/internal/walker"
)

// Scheduler manages a pool of workers that process files concurrently.
type Scheduler struct {
	workers int
	job     *Job
	reader  input.Reader
}

// New creates a Scheduler. If workers is 0, defaults to NumCPU * 2.
func New(workers int, job *Job, r input.Reader) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Scheduler{workers: workers, job: job, reader: r}
}

// Run processes files from the channel and returns one result per file.
// Results carry sequence numbers, starting at 1, in the order files were
// received.
func (s *Scheduler) Run(files <-chan walker.FileEntry) <-chan output.Result {
	resultCh := make(chan output.Result, s.workers*2)
	var (
		mu  sync.Mutex
		seq int
	)

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				// Numbers follow the order entries leave the channel.
				mu.Lock()
				entry, ok := <-files
				seq++
				seqNum := seq
				mu.Unlock()
				if !ok {
					return
				}
				result := s.Process(entry.Path)
				result.SeqNum = seqNum
				resultCh <- result
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

// Process reads one file and applies the job to it. Binary files are
// reported with Binary set and no matches.
func (s *Scheduler) Process(path string) output.Result {
	text, ok, err := input.ReadText(s.reader, path)
	if err != nil {
		return output.Result{FilePath: path, Err: err}
	}
	if !ok {
		return output.Result{FilePath: path, Binary: true}
	}
	return s.job.Apply(path, text)
}

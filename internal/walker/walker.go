// Package walker discovers the files a run applies patterns to.
package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// FileEntry is a file found during traversal.
type FileEntry struct {
	Path string
}

// WalkOptions configures traversal.
type WalkOptions struct {
	Recursive bool
	NoIgnore  bool // skip .gitignore processing
	Filter    Filter
	Workers   int // directory readers; 0 means NumCPU
}

// Walk sends every file reachable from roots on the returned channel. Both
// channels are closed once traversal ends. Without Recursive, roots are taken
// as file paths and directories among them are reported as errors.
func Walk(roots []string, opts WalkOptions) (<-chan FileEntry, <-chan error) {
	fileCh := make(chan FileEntry, 256)
	errCh := make(chan error, 16)

	go func() {
		defer close(fileCh)
		defer close(errCh)

		var dirs []string
		for _, root := range roots {
			info, err := os.Stat(root)
			if err != nil {
				errCh <- &WalkError{Path: root, Err: err}
				continue
			}
			switch {
			case info.Mode().IsRegular():
				fileCh <- FileEntry{Path: root}
			case info.IsDir() && opts.Recursive:
				dirs = append(dirs, root)
			case info.IsDir():
				errCh <- &WalkError{Path: root, Err: ErrIsDir}
			}
		}
		if len(dirs) == 0 {
			return
		}

		pw := &parallelWalker{
			fileCh:   fileCh,
			errCh:    errCh,
			filter:   opts.Filter,
			noIgnore: opts.NoIgnore,
			visited:  make(map[dirID]struct{}),
		}
		pw.cond = sync.NewCond(&pw.mu)
		for _, dir := range dirs {
			if !pw.firstVisit(dir) {
				continue
			}
			var layers []ignoreLayer
			if !opts.NoIgnore {
				layers = descend(nil, dir)
			}
			pw.enqueue(walkItem{path: dir, ignores: layers})
		}

		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pw.worker()
			}()
		}
		wg.Wait()
	}()

	return fileCh, errCh
}

// ErrIsDir is reported for a directory root when Recursive is off.
var ErrIsDir = errors.New("is a directory")

type walkItem struct {
	path    string
	ignores []ignoreLayer // nil with NoIgnore
}

// parallelWalker runs a breadth-first traversal shared by several workers.
type parallelWalker struct {
	fileCh   chan<- FileEntry
	errCh    chan<- error
	filter   Filter
	noIgnore bool

	mu      sync.Mutex
	queue   []walkItem
	pending int // directories enqueued and not yet processed
	cond    *sync.Cond
	done    bool
	visited map[dirID]struct{}
}

// dirID identifies a directory independently of the path that reached it.
type dirID struct {
	dev, ino uint64
}

// firstVisit reports whether the directory at path has not been walked yet
// and marks it walked. Symlinks that lead back to a walked directory, such
// as a link to an ancestor, are visited once.
func (pw *parallelWalker) firstVisit(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return true
	}
	id := dirID{dev: uint64(st.Dev), ino: st.Ino}
	pw.mu.Lock()
	defer pw.mu.Unlock()
	if _, seen := pw.visited[id]; seen {
		return false
	}
	pw.visited[id] = struct{}{}
	return true
}

func (pw *parallelWalker) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

// dequeue blocks until work is available. It returns false once every
// enqueued directory has been processed.
func (pw *parallelWalker) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	for len(pw.queue) == 0 && !pw.done {
		pw.cond.Wait()
	}
	if len(pw.queue) == 0 {
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	return item, true
}

func (pw *parallelWalker) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

func (pw *parallelWalker) worker() {
	for {
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		pw.processDir(item)
		pw.finish()
	}
}

// processDir reads one directory, yields its files and queues its
// subdirectories. Symlinks are followed: a link to a file is yielded, a link
// to a directory not walked yet is walked.
func (pw *parallelWalker) processDir(item walkItem) {
	entries, err := os.ReadDir(item.path)
	if err != nil {
		pw.errCh <- &WalkError{Path: item.path, Err: err}
		if len(entries) == 0 {
			return
		}
	}

	var subdirs []walkItem
	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(item.path, name)

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(fullPath)
			if err != nil {
				continue // broken link
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if pw.filter.skipDir(name) || isIgnored(item.ignores, fullPath, true) {
				continue
			}
			if !pw.firstVisit(fullPath) {
				continue
			}
			sub := walkItem{path: fullPath}
			if !pw.noIgnore {
				sub.ignores = descend(item.ignores, fullPath)
			}
			subdirs = append(subdirs, sub)
		case mode.IsRegular():
			if pw.filter.skipFile(name) || isIgnored(item.ignores, fullPath, false) {
				continue
			}
			pw.fileCh <- FileEntry{Path: fullPath}
		}
	}

	for _, sub := range subdirs {
		pw.enqueue(sub)
	}
}

// WalkError is an error met while traversing.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

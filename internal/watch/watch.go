// Package watch reports changes to files so patterns can be re-applied to
// their new content.
package watch

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// Event is a change to a watched path.
type Event struct {
	Path string
	Type EventType
	Err  error
}

// EventType identifies the kind of change.
type EventType int

const (
	EventModified EventType = iota
	EventCreated
	EventDeleted
)

func (t EventType) String() string {
	switch t {
	case EventModified:
		return "modified"
	case EventCreated:
		return "created"
	case EventDeleted:
		return "deleted"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// stamp identifies one version of a file's content.
type stamp struct {
	size  int64
	mtime unix.Timespec
	ino   uint64
}

// Watcher watches files and directories with inotify and epoll.
type Watcher struct {
	inotifyFd int
	epollFd   int

	mu      sync.Mutex
	watches map[int]string   // wd -> path
	stamps  map[string]stamp // last version handed out by Changed

	done      chan struct{}
	closeOnce sync.Once
}

const watchMask = unix.IN_MODIFY | unix.IN_CLOSE_WRITE | unix.IN_CREATE |
	unix.IN_MOVED_TO | unix.IN_MOVE_SELF | unix.IN_DELETE_SELF | unix.IN_DELETE

// New creates a Watcher.
func New() (*Watcher, error) {
	ifd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("inotify_init1: %w", err)
	}

	efd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		unix.Close(ifd)
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}

	event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(ifd)}
	if err := unix.EpollCtl(efd, unix.EPOLL_CTL_ADD, ifd, &event); err != nil {
		unix.Close(efd)
		unix.Close(ifd)
		return nil, fmt.Errorf("epoll_ctl: %w", err)
	}

	return &Watcher{
		inotifyFd: ifd,
		epollFd:   efd,
		watches:   make(map[int]string),
		stamps:    make(map[string]stamp),
		done:      make(chan struct{}),
	}, nil
}

// Add watches path. A directory reports changes to the files directly in
// it. The current content of a file counts as already seen by Changed.
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	wd, err := unix.InotifyAddWatch(w.inotifyFd, absPath, watchMask)
	if err != nil {
		return fmt.Errorf("inotify_add_watch %s: %w", absPath, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.watches[wd] = absPath
	if st, isFile, err := statPath(absPath); err == nil && isFile {
		w.stamps[absPath] = st
	}
	return nil
}

// Changed reports whether path holds content not seen by an earlier call
// (or by Add). Editors and appenders fire several events per save; only the
// first one after a real change returns true.
func (w *Watcher) Changed(path string) bool {
	st, isFile, err := statPath(path)
	if err != nil || !isFile {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, seen := w.stamps[path]
	if seen && prev == st {
		return false
	}
	w.stamps[path] = st
	return true
}

// Forget drops what Changed remembers about path, so a file recreated with
// identical metadata is still reported.
func (w *Watcher) Forget(path string) {
	w.mu.Lock()
	delete(w.stamps, path)
	w.mu.Unlock()
}

func statPath(path string) (stamp, bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return stamp{}, false, err
	}
	isFile := st.Mode&unix.S_IFMT == unix.S_IFREG
	return stamp{size: st.Size, mtime: st.Mtim, ino: st.Ino}, isFile, nil
}

// Events returns a channel of changes. It is closed after Close.
func (w *Watcher) Events() <-chan Event {
	ch := make(chan Event, 64)
	go func() {
		defer close(ch)
		buf := make([]byte, 4096)
		events := make([]unix.EpollEvent, 1)

		for {
			select {
			case <-w.done:
				return
			default:
			}

			// Short timeout so Close is noticed.
			n, err := unix.EpollWait(w.epollFd, events, 100)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				w.send(ch, Event{Err: fmt.Errorf("epoll_wait: %w", err)})
				return
			}
			if n == 0 {
				continue
			}

			nbytes, err := unix.Read(w.inotifyFd, buf)
			if err != nil {
				if err == unix.EAGAIN || err == unix.EINTR {
					continue
				}
				w.send(ch, Event{Err: fmt.Errorf("read inotify: %w", err)})
				return
			}
			for _, evt := range w.parseEvents(buf[:nbytes]) {
				if !w.send(ch, evt) {
					return
				}
			}
		}
	}()
	return ch
}

// send delivers evt unless the watcher is closed first.
func (w *Watcher) send(ch chan<- Event, evt Event) bool {
	select {
	case ch <- evt:
		return true
	case <-w.done:
		return false
	}
}

// inotify event header: wd int32, mask uint32, cookie uint32, len uint32,
// followed by len bytes of NUL-padded name.
const inotifyEventSize = 16

func (w *Watcher) parseEvents(buf []byte) []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Event
	for offset := 0; offset+inotifyEventSize <= len(buf); {
		wd := int32(binary.LittleEndian.Uint32(buf[offset:]))
		mask := binary.LittleEndian.Uint32(buf[offset+4:])
		nameLen := int(binary.LittleEndian.Uint32(buf[offset+12:]))

		nameStart := offset + inotifyEventSize
		if nameStart+nameLen > len(buf) {
			break
		}
		name := buf[nameStart : nameStart+nameLen]
		for i, b := range name {
			if b == 0 {
				name = name[:i]
				break
			}
		}
		offset = nameStart + nameLen

		path, ok := w.watches[int(wd)]
		if !ok {
			continue
		}
		if len(name) > 0 {
			path = filepath.Join(path, string(name))
		}
		if mask&unix.IN_IGNORED != 0 {
			delete(w.watches, int(wd))
			continue
		}

		switch {
		case mask&(unix.IN_CREATE|unix.IN_MOVED_TO) != 0:
			out = append(out, Event{Path: path, Type: EventCreated})
		case mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) != 0:
			out = append(out, Event{Path: path, Type: EventModified})
		case mask&(unix.IN_DELETE|unix.IN_DELETE_SELF|unix.IN_MOVE_SELF) != 0:
			out = append(out, Event{Path: path, Type: EventDeleted})
		}
	}
	return out
}

// Close stops the watcher and releases resources. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		unix.Close(w.epollFd)
		err = unix.Close(w.inotifyFd)
	})
	return err
}

// Package watch blocks until a file or directory changes, using inotify.
package watch

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// Mask is the set of inotify events that count as a change.
const Mask = unix.IN_MODIFY | unix.IN_CREATE | unix.IN_DELETE |
	unix.IN_MOVED_FROM | unix.IN_MOVED_TO |
	unix.IN_MOVE_SELF | unix.IN_DELETE_SELF | unix.IN_CLOSE_WRITE

// pollTimeout is how often, in milliseconds, the read loop checks for
// cancellation while no events arrive.
const pollTimeout = 100

// File watches a single path. A new inotify instance is created for every
// Wait call, so a replaced file is picked up on the next call.
type File struct {
	Path string

	// Ignore, when set, drops directory events whose entry name it accepts.
	Ignore func(name string) bool
}

// New returns a watcher for path.
func New(path string) *File {
	return &File{Path: path}
}

// Wait blocks until a change event fires on the path and reports true. It
// returns ctx.Err() when ctx is cancelled first.
func (w *File) Wait(ctx context.Context) (bool, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return false, fmt.Errorf("inotify_init1: %w", err)
	}
	defer unix.Close(fd)

	if _, err := unix.InotifyAddWatch(fd, w.Path, Mask|unix.IN_DONT_FOLLOW); err != nil {
		return false, fmt.Errorf("inotify_add_watch on %s: %w", w.Path, err)
	}

	buffer := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, pollTimeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return false, fmt.Errorf("poll inotify: %w", err)
		}
		if n == 0 {
			continue
		}

		read, err := unix.Read(fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return false, fmt.Errorf("read inotify: %w", err)
		}
		if containsChange(buffer[:read], w.Ignore) {
			return true, nil
		}
	}
}

// containsChange scans raw inotify events for one in Mask whose entry
// name is not ignored. Events on the watched path itself carry no name.
//
// Event layout (inotify(7)):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, padded to alignment
//	};
func containsChange(buffer []byte, ignore func(string) bool) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		mask := binary.NativeEndian.Uint32(buffer[offset+4 : offset+8])
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		start := offset + unix.SizeofInotifyEvent
		if start+nameLength > len(buffer) {
			return false
		}
		name := string(bytes.TrimRight(buffer[start:start+nameLength], "\x00"))
		if mask&Mask != 0 && (name == "" || ignore == nil || !ignore(name)) {
			return true
		}
		offset = start + nameLength
	}
	return false
}

package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// State represents the lifecycle state of an archive file.
type State int

const (
	// StateOpen means the archive is registered but nothing has been
	// written yet.
	StateOpen State = iota
	// StateAppending means at least one fragment has been written.
	StateAppending
	// StateSealed means the archive has been wrapped into its final JSON
	// array form and accepts no further writes.
	StateSealed
)

// String returns the state name for logs and API responses.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateAppending:
		return "appending"
	case StateSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// archiveFileMode is the permission mode for archive files on disk.
const archiveFileMode = 0o644

// File is the handle for one archive file. All operations on a handle are
// serialized by its mutex, so appends, sealing, and deletion for one key
// never interleave. Handles are created only by the Registry.
type File struct {
	path  string
	mu    sync.Mutex
	state State
}

// newFile returns an Open handle for the given path. Nothing touches the
// disk until the first append.
func newFile(path string) *File {
	return &File{path: path, state: StateOpen}
}

// Path returns the absolute path of the archive file.
func (f *File) Path() string {
	return f.path
}

// State returns the current lifecycle state.
func (f *File) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Append extracts the archivable fragment from a raw response payload and
// writes it to the archive file. The pagination metadata of the page is
// returned even when the page contributes no content. A page with an empty
// statuses array writes nothing and leaves the state unchanged, so the next
// non-empty page still joins the element list with a single comma.
//
// Appending to a sealed archive fails with ErrArchiveSealed and leaves the
// file untouched.
func (f *File) Append(payload []byte) (Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSealed {
		return Metadata{}, fmt.Errorf("append %s: %w", f.path, ErrArchiveSealed)
	}

	fragment, meta := Extract(payload, f.state == StateAppending)
	if len(fragment) == 0 {
		return meta, nil
	}

	// The first write creates the file if absent and starts at offset
	// zero; the file is never truncated. A stale file left by a previous
	// process is overwritten from the start, later writes extend the
	// element list.
	flags := os.O_WRONLY | os.O_CREATE
	if f.state == StateAppending {
		flags = os.O_WRONLY | os.O_APPEND
	}

	handle, err := os.OpenFile(f.path, flags, archiveFileMode)
	if err != nil {
		return meta, fmt.Errorf("open archive %s: %w", f.path, err)
	}
	if _, err := handle.Write(fragment); err != nil {
		handle.Close()
		return meta, fmt.Errorf("write archive %s: %w", f.path, err)
	}
	if err := handle.Close(); err != nil {
		return meta, fmt.Errorf("close archive %s: %w", f.path, err)
	}

	f.state = StateAppending
	return meta, nil
}

// Seal wraps the accumulated fragments into a complete JSON array document
// and makes the archive read-only. An archive sealed before any write
// becomes the empty document "[]". Sealing twice fails with
// ErrArchiveSealed; the brackets are applied exactly once.
func (f *File) Seal() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSealed {
		return fmt.Errorf("seal %s: %w", f.path, ErrArchiveSealed)
	}

	content, err := os.ReadFile(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read archive %s: %w", f.path, err)
	}

	sealed := make([]byte, 0, len(content)+2)
	sealed = append(sealed, '[')
	sealed = append(sealed, content...)
	sealed = append(sealed, ']')

	if err := os.WriteFile(f.path, sealed, archiveFileMode); err != nil {
		return fmt.Errorf("seal archive %s: %w", f.path, err)
	}

	f.state = StateSealed
	return nil
}

// Delete removes the archive file from disk. A missing file is not an
// error, so deletion is idempotent. The handle is left sealed so a caller
// still holding it cannot write to a path the Registry no longer tracks.
func (f *File) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete archive %s: %w", f.path, err)
	}

	f.state = StateSealed
	return nil
}

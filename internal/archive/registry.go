// Package archive manages per-day, per-location archive files of raw
// search results.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// archiveDirMode is the permission mode for the archive directory.
const archiveDirMode = 0o755

// Registry maps archive keys to their file handles. It is the only way to
// obtain a handle, which guarantees at most one handle per key
// process-wide. A Registry is safe for concurrent use.
type Registry struct {
	dir   string
	mu    sync.RWMutex
	files map[string]*File
}

// NewRegistry creates a registry rooted at dir, creating the directory if
// needed. An empty dir falls back to the system temporary directory.
func NewRegistry(dir string) (*Registry, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, archiveDirMode); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	return &Registry{
		dir:   dir,
		files: make(map[string]*File),
	}, nil
}

// Dir returns the directory archives are written under.
func (r *Registry) Dir() string {
	return r.dir
}

// Has reports whether a key has a registered archive.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.files[key]
	return ok
}

// GetOrCreate returns the handle for key, creating and registering it if
// absent. The check and the insert happen under one lock acquisition, so
// concurrent callers for the same key always share one handle.
func (r *Registry) GetOrCreate(key string) *File {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.files[key]; ok {
		return f
	}
	f := newFile(filepath.Join(r.dir, key))
	r.files[key] = f
	return f
}

// Get returns the handle for key, or ErrArchiveNotFound when the key has
// never been registered (or was removed).
func (r *Registry) Get(key string) (*File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[key]
	if !ok {
		return nil, fmt.Errorf("archive %q: %w", key, ErrArchiveNotFound)
	}
	return f, nil
}

// Remove drops the mapping for key without touching the file on disk. It
// releases a handle once its day has been sealed; the artifact persists.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, key)
}

// Delete removes the archive file from disk and drops the mapping. A key
// with no mapping is a no-op, so Delete is idempotent. The mapping survives
// a failed file removal so the deletion can be retried.
func (r *Registry) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[key]
	if !ok {
		return nil
	}
	if err := f.Delete(); err != nil {
		return err
	}
	delete(r.files, key)
	return nil
}

// Paths returns a sorted point-in-time snapshot of all registered archive
// paths.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.files))
	for _, f := range r.files {
		paths = append(paths, f.path)
	}
	sort.Strings(paths)
	return paths
}

// Keys returns a sorted point-in-time snapshot of all registered keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.files))
	for key := range r.files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

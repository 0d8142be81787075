package archive_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/stretchr/testify/require"
)

// readArchivedIDs parses a sealed archive and returns the post IDs in file
// order.
func readArchivedIDs(t *testing.T, path string) []int64 {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var posts []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(content, &posts))

	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	return ids
}

func TestRegistry_GetOrCreateSingleton(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	first := reg.GetOrCreate("2024-03-15_Toronto")
	second := reg.GetOrCreate("2024-03-15_Toronto")
	require.Same(t, first, second)
	require.True(t, reg.Has("2024-03-15_Toronto"))

	other := reg.GetOrCreate("2024-03-15_Ottawa")
	require.NotSame(t, first, other)
}

func TestRegistry_GetOrCreateConcurrent(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	const goroutines = 32
	handles := make([]*archive.File, goroutines)

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles[i] = reg.GetOrCreate("2024-03-15_Toronto")
		}()
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		require.Same(t, handles[0], handles[i])
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)

	require.False(t, reg.Has("2024-03-15_Toronto"))
	_, err := reg.Get("2024-03-15_Toronto")
	require.ErrorIs(t, err, archive.ErrArchiveNotFound)
}

func TestRegistry_RemoveReleasesMappingOnly(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	_, err := f.Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`))
	require.NoError(t, err)
	require.NoError(t, f.Seal())

	reg.Remove("2024-03-15_Toronto")

	require.False(t, reg.Has("2024-03-15_Toronto"))
	_, err = reg.Get("2024-03-15_Toronto")
	require.ErrorIs(t, err, archive.ErrArchiveNotFound)

	// The sealed artifact persists on disk.
	require.FileExists(t, f.Path())
}

func TestRegistry_DeleteIdempotent(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	_, err := f.Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`))
	require.NoError(t, err)

	require.NoError(t, reg.Delete("2024-03-15_Toronto"))
	require.NoFileExists(t, f.Path())
	require.False(t, reg.Has("2024-03-15_Toronto"))

	// Deleting again is a no-op.
	require.NoError(t, reg.Delete("2024-03-15_Toronto"))
}

func TestRegistry_PathsAndKeysSnapshot(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	require.Empty(t, reg.Paths())

	keys := []string{"2024-03-16_Ottawa", "2024-03-15_Toronto", "2024-03-15_Ottawa"}
	for _, key := range keys {
		reg.GetOrCreate(key)
	}

	wantKeys := []string{"2024-03-15_Ottawa", "2024-03-15_Toronto", "2024-03-16_Ottawa"}
	require.Equal(t, wantKeys, reg.Keys())

	wantPaths := make([]string, 0, len(wantKeys))
	for _, key := range wantKeys {
		wantPaths = append(wantPaths, filepath.Join(reg.Dir(), key))
	}
	require.Equal(t, wantPaths, reg.Paths())
}

func TestRegistry_ConcurrentAppendsSealToValidArray(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	const pages = 24
	errs := make(chan error, pages)
	var wg sync.WaitGroup
	for i := range pages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload := fmt.Sprintf(`{"statuses":[{"id":%d}],"max_id":%d,"count":1}`, i+1, i+1)
			_, err := f.Append([]byte(payload))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, f.Seal())

	ids := readArchivedIDs(t, f.Path())
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	want := make([]int64, 0, pages)
	for i := range pages {
		want = append(want, int64(i+1))
	}
	require.Equal(t, want, ids)
}

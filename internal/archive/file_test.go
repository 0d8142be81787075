package archive_test

import (
	"os"
	"testing"
	"time"

	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/stretchr/testify/require"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return day
}

func newTestRegistry(t *testing.T) *archive.Registry {
	t.Helper()
	reg, err := archive.NewRegistry(t.TempDir())
	require.NoError(t, err)
	return reg
}

func TestFile_AppendAndSeal(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")
	require.Equal(t, archive.StateOpen, f.State())

	meta, err := f.Append([]byte(`{"statuses":[{"id":1},{"id":2},{"id":3}],"max_id":3,"count":3}`))
	require.NoError(t, err)
	require.Equal(t, archive.Metadata{MaxID: 3, Count: 3}, meta)
	require.Equal(t, archive.StateAppending, f.State())

	content, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, `{"id":1},{"id":2},{"id":3}`, string(content))

	require.NoError(t, f.Seal())
	require.Equal(t, archive.StateSealed, f.State())

	sealed, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, `[{"id":1},{"id":2},{"id":3}]`, string(sealed))
}

func TestFile_MultiPageSealYieldsValidArray(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	pages := []string{
		`{"statuses":[{"id":1},{"id":2}],"max_id":2,"count":2}`,
		`{"statuses":[{"id":3}],"max_id":3,"count":1}`,
		`{"statuses":[{"id":4},{"id":5}],"max_id":5,"count":2}`,
	}
	for _, page := range pages {
		_, err := f.Append([]byte(page))
		require.NoError(t, err)
	}
	require.NoError(t, f.Seal())

	ids := readArchivedIDs(t, f.Path())
	require.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestFile_EmptyPageWritesNothing(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	meta, err := f.Append([]byte(`{"statuses":[],"max_id":5,"count":0}`))
	require.NoError(t, err)
	require.Equal(t, archive.Metadata{MaxID: 5, Count: 0}, meta)

	// No content, no file, no state change.
	require.NoFileExists(t, f.Path())
	require.Equal(t, archive.StateOpen, f.State())

	// The next real page must not gain a leading comma.
	_, err = f.Append([]byte(`{"statuses":[{"id":6}],"max_id":6,"count":1}`))
	require.NoError(t, err)
	require.NoError(t, f.Seal())

	sealed, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, `[{"id":6}]`, string(sealed))
}

func TestFile_SealedRejectsAppend(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	_, err := f.Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`))
	require.NoError(t, err)
	require.NoError(t, f.Seal())

	before, err := os.ReadFile(f.Path())
	require.NoError(t, err)

	_, err = f.Append([]byte(`{"statuses":[{"id":2}],"max_id":2,"count":1}`))
	require.ErrorIs(t, err, archive.ErrArchiveSealed)

	after, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestFile_DoubleSealRejected(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	_, err := f.Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`))
	require.NoError(t, err)
	require.NoError(t, f.Seal())
	require.ErrorIs(t, f.Seal(), archive.ErrArchiveSealed)

	// The brackets are applied exactly once.
	sealed, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, `[{"id":1}]`, string(sealed))
}

func TestFile_SealWithoutWrites(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	require.NoError(t, f.Seal())

	sealed, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, `[]`, string(sealed))
}

func TestFile_FirstAppendOverwritesFromOffsetZero(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	// A partial file left behind by a crashed process. The first write of
	// a fresh handle starts at offset zero and never truncates, so bytes
	// beyond the new fragment survive.
	require.NoError(t, os.WriteFile(f.Path(), []byte(`{"id":97},{"id":9`), 0o644))

	_, err := f.Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`))
	require.NoError(t, err)

	content, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.Equal(t, `{"id":1}},{"id":9`, string(content))
}

func TestFile_DeleteIdempotent(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	f := reg.GetOrCreate("2024-03-15_Toronto")

	_, err := f.Append([]byte(`{"statuses":[{"id":1}],"max_id":1,"count":1}`))
	require.NoError(t, err)

	require.NoError(t, f.Delete())
	require.NoFileExists(t, f.Path())
	require.NoError(t, f.Delete())

	// A deleted handle accepts no further writes.
	_, err = f.Append([]byte(`{"statuses":[{"id":2}],"max_id":2,"count":1}`))
	require.ErrorIs(t, err, archive.ErrArchiveSealed)
	require.NoFileExists(t, f.Path())
}

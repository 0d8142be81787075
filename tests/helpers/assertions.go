// Package helpers provides testing utilities for integration tests.
package helpers

import (
	"context"
	"encoding/json"
	"os"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/geosearch/internal/database"
)

// AssertArchiveSealed checks that the file at path holds a valid JSON
// array whose post ids match wantIDs in order.
func AssertArchiveSealed(t require.TestingT, path string, wantIDs []int64) {
	raw, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read archive %s", path)

	var posts []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &posts),
		"sealed archive %s should be a valid JSON array", path)

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	assert.Equal(t, wantIDs, ids, "unexpected post ids in archive %s", path)
}

// AssertLocationCursor checks that the stored since_id cursor for the named
// location matches want.
func AssertLocationCursor(
	t require.TestingT,
	ctx context.Context,
	repo *database.LocationRepository,
	name string,
	want int64,
) {
	loc, err := repo.GetByName(ctx, name)
	require.NoError(t, err, "failed to look up location %s", name)
	assert.Equal(t, want, loc.SinceID, "unexpected cursor for location %s", name)
	assert.NotNil(t, loc.LastPolledAt, "location %s should record its poll time", name)
}

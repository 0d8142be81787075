// Package integration_test provides integration tests for GeoSearch.
// These tests verify component interactions against a real PostgreSQL
// instance.
package integration_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/ingest"
	"github.com/jonesrussell/geosearch/internal/logger"
	"github.com/jonesrussell/geosearch/internal/search"
	"github.com/jonesrussell/geosearch/tests/helpers"
)

const migrationsURL = "file://../../migrations"

// startDatabase brings up a migrated PostgreSQL container and returns an
// open connection. Containers and connections are cleaned up with the test.
func startDatabase(t *testing.T, ctx context.Context) *sqlx.DB {
	t.Helper()

	pg, err := helpers.StartPostgres(ctx)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = pg.Stop(context.Background()) })

	require.NoError(t, pg.MigrateUp(migrationsURL), "failed to apply migrations")

	db, err := database.NewPostgresConnection(pg.Config())
	require.NoError(t, err, "failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestIntegration_LocationRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db := startDatabase(t, ctx)
	repo := database.NewLocationRepository(db)

	created, err := repo.Create(ctx, helpers.TestLocation("Toronto"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, helpers.DefaultTestPollInterval, created.PollIntervalMinutes)

	_, err = repo.Create(ctx, helpers.TestLocation("Thunder Bay",
		helpers.WithCoordinates(48.3809, -89.2477),
		helpers.WithRadius(25),
		helpers.Disabled()))
	require.NoError(t, err)

	// Duplicate names are rejected by the unique constraint.
	_, err = repo.Create(ctx, helpers.TestLocation("Toronto"))
	require.Error(t, err)

	got, err := repo.GetByName(ctx, "Toronto")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByName(ctx, "Atlantis")
	require.ErrorIs(t, err, database.ErrLocationNotFound)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Thunder Bay", all[0].Name, "list is ordered by name")

	enabled, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "Toronto", enabled[0].Name)

	// A never-polled enabled location is due immediately.
	due, err := repo.ListDueForPolling(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Toronto", due[0].Name)

	// Recording a poll takes it out of the due set.
	require.NoError(t, repo.UpdateCursor(ctx, "Toronto", 12345))
	helpers.AssertLocationCursor(t, ctx, repo, "Toronto", 12345)

	due, err = repo.ListDueForPolling(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Enabling Thunder Bay makes it due.
	require.NoError(t, repo.SetEnabled(ctx, "Thunder Bay", true))
	due, err = repo.ListDueForPolling(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Thunder Bay", due[0].Name)

	require.ErrorIs(t, repo.SetEnabled(ctx, "Atlantis", true), database.ErrLocationNotFound)
}

func TestIntegration_PollAndSealPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db := startDatabase(t, ctx)
	repo := database.NewLocationRepository(db)

	_, err := repo.Create(ctx, helpers.TestLocation("Toronto"))
	require.NoError(t, err)

	// The fake API serves two pages of posts, then empty pages.
	server, requests := helpers.MockSearchAPI(
		helpers.SearchPage(200, 100, 200),
		helpers.SearchPage(300, 300),
	)
	defer server.Close()

	registry, err := archive.NewRegistry(t.TempDir())
	require.NoError(t, err)

	service := ingest.NewService(ingest.Params{
		Registry:  registry,
		Client:    search.NewHTTPClient(search.WithBaseURL(server.URL)),
		Locations: repo,
		Logger:    logger.NewNoOp(),
		PageSize:  2,
		MaxPages:  10,
	})

	require.NoError(t, service.PollDue(ctx))

	// Pagination followed the cursor: each page's max_id became the next
	// request's since_id, and the first request carried no cursor at all.
	require.Equal(t, 3, requests.Count())
	assert.Equal(t, "", requests.Query(0, "since_id"))
	assert.Equal(t, "200", requests.Query(1, "since_id"))
	assert.Equal(t, "300", requests.Query(2, "since_id"))

	// The highest id seen was persisted; the location is no longer due.
	helpers.AssertLocationCursor(t, ctx, repo, "Toronto", 300)
	due, err := repo.ListDueForPolling(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Seal today's archive and verify the finished document.
	keys := registry.Keys()
	require.Len(t, keys, 1)

	file, err := registry.Get(keys[0])
	require.NoError(t, err)
	path := file.Path()

	require.NoError(t, service.SealDay(ctx, keys[0]))
	helpers.AssertArchiveSealed(t, path, []int64{100, 200, 300})
	assert.False(t, registry.Has(keys[0]), "sealed archive should be released")
}

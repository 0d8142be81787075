package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/domain"
)

// locationColumns lists the columns returned by locations SELECT queries.
var locationColumns = []string{
	"id", "name", "latitude", "longitude", "radius_km", "since_id", "enabled",
	"poll_interval_minutes", "last_polled_at", "created_at", "updated_at",
}

func newLocationRepo(t *testing.T) (*database.LocationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := database.NewLocationRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func locationRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(locationColumns).AddRow(
		"loc-uuid-1", "Toronto", 43.6532, -79.3832, 15.0, int64(0), true,
		30, nil, now, now,
	)
}

func TestLocationRepository_Create(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO locations").
		WithArgs(sqlmock.AnyArg(), "Toronto", 43.6532, -79.3832, 15.0, 30, true).
		WillReturnRows(locationRow(now))

	created, err := repo.Create(ctx, &domain.Location{
		Name:                "Toronto",
		Latitude:            43.6532,
		Longitude:           -79.3832,
		RadiusKM:            15.0,
		PollIntervalMinutes: 30,
		Enabled:             true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != "loc-uuid-1" {
		t.Errorf("expected ID=loc-uuid-1, got %s", created.ID)
	}
	if created.Name != "Toronto" {
		t.Errorf("expected Name=Toronto, got %s", created.Name)
	}
	if created.LastPolledAt != nil {
		t.Errorf("expected LastPolledAt=nil, got %v", created.LastPolledAt)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_GetByName(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT .+ FROM locations WHERE name").
		WithArgs("Toronto").
		WillReturnRows(locationRow(now))

	loc, err := repo.GetByName(ctx, "Toronto")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if loc.Name != "Toronto" {
		t.Errorf("expected Name=Toronto, got %s", loc.Name)
	}
	if loc.RadiusKM != 15.0 {
		t.Errorf("expected RadiusKM=15.0, got %f", loc.RadiusKM)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_GetByName_NotFound(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()

	mock.ExpectQuery("SELECT .+ FROM locations WHERE name").
		WithArgs("Atlantis").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByName(ctx, "Atlantis")
	if !errors.Is(err, database.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_List(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(locationColumns).
		AddRow("loc-uuid-1", "Ottawa", 45.4215, -75.6972, 10.0, int64(0), true, 30, nil, now, now).
		AddRow("loc-uuid-2", "Toronto", 43.6532, -79.3832, 15.0, int64(100), false, 60, now, now, now)

	mock.ExpectQuery("SELECT .+ FROM locations ORDER BY name").
		WillReturnRows(rows)

	locations, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locations))
	}
	if locations[0].Name != "Ottawa" {
		t.Errorf("expected first location Ottawa, got %s", locations[0].Name)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_List_OnlyEnabled(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT .+ FROM locations WHERE enabled ORDER BY name").
		WillReturnRows(locationRow(now))

	locations, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(locations))
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_ListDueForPolling(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	polledAt := now.Add(-2 * time.Hour)

	rows := sqlmock.NewRows(locationColumns).
		AddRow("loc-uuid-1", "Ottawa", 45.4215, -75.6972, 10.0, int64(0), true, 30, nil, now, now).
		AddRow("loc-uuid-2", "Toronto", 43.6532, -79.3832, 15.0, int64(100), true, 30, polledAt, now, now)

	mock.ExpectQuery("SELECT .+ FROM locations WHERE enabled AND").
		WillReturnRows(rows)

	locations, err := repo.ListDueForPolling(ctx)
	if err != nil {
		t.Fatalf("ListDueForPolling() error = %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locations))
	}
	if locations[0].LastPolledAt != nil {
		t.Errorf("expected never-polled location first, got %v", locations[0].LastPolledAt)
	}
	if locations[1].SinceID != 100 {
		t.Errorf("expected SinceID=100, got %d", locations[1].SinceID)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_ListDueForPolling_Empty(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()

	mock.ExpectQuery("SELECT .+ FROM locations WHERE enabled AND").
		WillReturnRows(sqlmock.NewRows(locationColumns))

	locations, err := repo.ListDueForPolling(ctx)
	if err != nil {
		t.Fatalf("ListDueForPolling() error = %v", err)
	}
	if locations == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(locations) != 0 {
		t.Errorf("expected 0 locations, got %d", len(locations))
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_UpdateCursor(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()

	mock.ExpectExec("UPDATE locations SET since_id").
		WithArgs("Toronto", int64(123456789)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateCursor(ctx, "Toronto", 123456789); err != nil {
		t.Fatalf("UpdateCursor() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_UpdateCursor_NotFound(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()

	mock.ExpectExec("UPDATE locations SET since_id").
		WithArgs("Atlantis", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCursor(ctx, "Atlantis", 1)
	if !errors.Is(err, database.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestLocationRepository_SetEnabled(t *testing.T) {
	repo, mock, cleanup := newLocationRepo(t)
	defer cleanup()

	ctx := context.Background()

	mock.ExpectExec("UPDATE locations SET enabled").
		WithArgs("Toronto", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetEnabled(ctx, "Toronto", false); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	expectationsMet(t, mock)
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/geosearch/internal/domain"
)

// ErrLocationNotFound is returned when a location does not exist.
var ErrLocationNotFound = errors.New("location not found")

// locationSelectColumns lists columns for SELECT queries on locations.
const locationSelectColumns = `id, name, latitude, longitude, radius_km, since_id, enabled,
	poll_interval_minutes, last_polled_at, created_at, updated_at`

// LocationRepository handles database operations for search locations.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create inserts a new location and returns it with generated fields filled.
func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	query := `
		INSERT INTO locations (id, name, latitude, longitude, radius_km, poll_interval_minutes, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + locationSelectColumns

	id := loc.ID
	if id == "" {
		id = uuid.NewString()
	}

	var created domain.Location
	err := r.db.GetContext(ctx, &created, query,
		id, loc.Name, loc.Latitude, loc.Longitude, loc.RadiusKM, loc.PollIntervalMinutes, loc.Enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to insert location: %w", err)
	}

	return &created, nil
}

// GetByName returns the location with the given name.
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*domain.Location, error) {
	query := `SELECT ` + locationSelectColumns + ` FROM locations WHERE name = $1`

	var loc domain.Location
	if err := r.db.GetContext(ctx, &loc, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, name)
		}
		return nil, fmt.Errorf("failed to select location: %w", err)
	}

	return &loc, nil
}

// List returns all locations ordered by name. When onlyEnabled is true,
// disabled locations are filtered out.
func (r *LocationRepository) List(ctx context.Context, onlyEnabled bool) ([]*domain.Location, error) {
	query := `SELECT ` + locationSelectColumns + ` FROM locations ORDER BY name ASC`
	if onlyEnabled {
		query = `SELECT ` + locationSelectColumns + ` FROM locations WHERE enabled ORDER BY name ASC`
	}

	var locations []*domain.Location
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	if locations == nil {
		locations = []*domain.Location{}
	}

	return locations, nil
}

// ListDueForPolling returns enabled locations whose poll interval has
// elapsed. A location is due if it has never been polled or if
// last_polled_at + poll_interval_minutes <= NOW(). Results are ordered with
// never-polled locations first, then oldest-polled.
func (r *LocationRepository) ListDueForPolling(ctx context.Context) ([]*domain.Location, error) {
	query := `
		SELECT ` + locationSelectColumns + `
		FROM locations
		WHERE enabled
		  AND (last_polled_at IS NULL
		   OR last_polled_at + (poll_interval_minutes * INTERVAL '1 minute') <= NOW())
		ORDER BY last_polled_at ASC NULLS FIRST
	`

	var locations []*domain.Location
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations due for polling: %w", err)
	}

	if locations == nil {
		locations = []*domain.Location{}
	}

	return locations, nil
}

// UpdateCursor records a completed poll: the new since_id cursor and the
// poll timestamp.
func (r *LocationRepository) UpdateCursor(ctx context.Context, name string, sinceID int64) error {
	query := `
		UPDATE locations
		SET since_id = $2, last_polled_at = NOW(), updated_at = NOW()
		WHERE name = $1
	`

	result, err := r.db.ExecContext(ctx, query, name, sinceID)
	return execRequireRows(result, err, fmt.Errorf("%w: %s", ErrLocationNotFound, name))
}

// SetEnabled toggles whether a location is polled.
func (r *LocationRepository) SetEnabled(ctx context.Context, name string, enabled bool) error {
	query := `
		UPDATE locations
		SET enabled = $2, updated_at = NOW()
		WHERE name = $1
	`

	result, err := r.db.ExecContext(ctx, query, name, enabled)
	return execRequireRows(result, err, fmt.Errorf("%w: %s", ErrLocationNotFound, name))
}

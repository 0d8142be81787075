// Package helpers provides testing utilities for integration tests.
package helpers

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/geosearch/internal/domain"
)

const (
	// DefaultTestRadiusKM is the default search radius for test locations.
	DefaultTestRadiusKM = 15.0
	// DefaultTestPollInterval is the default poll interval for test locations.
	DefaultTestPollInterval = 30
)

// LocationOption is a function that modifies a test location.
type LocationOption func(*domain.Location)

// TestLocation creates a test location centered on Toronto.
func TestLocation(name string, opts ...LocationOption) *domain.Location {
	loc := &domain.Location{
		Name:                name,
		Latitude:            43.6532,
		Longitude:           -79.3832,
		RadiusKM:            DefaultTestRadiusKM,
		Enabled:             true,
		PollIntervalMinutes: DefaultTestPollInterval,
	}

	for _, opt := range opts {
		opt(loc)
	}

	return loc
}

// WithCoordinates sets the search circle center for a test location.
func WithCoordinates(lat, lng float64) LocationOption {
	return func(l *domain.Location) {
		l.Latitude = lat
		l.Longitude = lng
	}
}

// WithRadius sets the search radius for a test location.
func WithRadius(radiusKM float64) LocationOption {
	return func(l *domain.Location) {
		l.RadiusKM = radiusKM
	}
}

// WithPollInterval sets the poll interval for a test location.
func WithPollInterval(minutes int) LocationOption {
	return func(l *domain.Location) {
		l.PollIntervalMinutes = minutes
	}
}

// Disabled registers the test location without enabling polling.
func Disabled() LocationOption {
	return func(l *domain.Location) {
		l.Enabled = false
	}
}

// SearchPage builds a raw search API response page carrying posts with the
// given ids.
func SearchPage(maxID int64, ids ...int64) []byte {
	elems := make([]string, len(ids))
	for i, id := range ids {
		elems[i] = fmt.Sprintf(`{"id":%d}`, id)
	}
	return fmt.Appendf(nil, `{"statuses":[%s],"max_id":%d,"count":%d}`,
		strings.Join(elems, ","), maxID, len(ids))
}

// EmptySearchPage builds a raw response page with no posts. The max_id
// echoes the cursor the way the search API does for exhausted result sets.
func EmptySearchPage(maxID int64) []byte {
	return SearchPage(maxID)
}

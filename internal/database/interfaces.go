package database

import (
	"context"

	"github.com/jonesrussell/geosearch/internal/domain"
)

// LocationRepositoryInterface defines the contract for location data access.
type LocationRepositoryInterface interface {
	Create(ctx context.Context, loc *domain.Location) (*domain.Location, error)
	GetByName(ctx context.Context, name string) (*domain.Location, error)
	List(ctx context.Context, onlyEnabled bool) ([]*domain.Location, error)
	ListDueForPolling(ctx context.Context) ([]*domain.Location, error)
	UpdateCursor(ctx context.Context, name string, sinceID int64) error
	SetEnabled(ctx context.Context, name string, enabled bool) error
}

package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/domain"
	"github.com/jonesrussell/geosearch/internal/logger"
)

// defaultPollIntervalMinutes is assigned to new locations that do not
// specify their own interval.
const defaultPollIntervalMinutes = 30

// Adder handles the creation of a search location
type Adder struct {
	repo   *database.LocationRepository
	logger logger.Interface
}

// NewAdder creates a new Adder instance
func NewAdder(repo *database.LocationRepository, log logger.Interface) *Adder {
	return &Adder{repo: repo, logger: log}
}

// Start validates the location and inserts it
func (a *Adder) Start(ctx context.Context, loc *domain.Location) error {
	if err := validateLocation(loc); err != nil {
		return err
	}

	if loc.PollIntervalMinutes <= 0 {
		loc.PollIntervalMinutes = defaultPollIntervalMinutes
	}

	created, err := a.repo.Create(ctx, loc)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	a.logger.Info("Location created",
		"name", created.Name,
		"latitude", created.Latitude,
		"longitude", created.Longitude,
		"radius_km", created.RadiusKM,
		"poll_interval_minutes", created.PollIntervalMinutes,
		"enabled", created.Enabled)

	return nil
}

// validateLocation applies the same rules as the HTTP API so a location is
// valid regardless of which surface registered it.
func validateLocation(loc *domain.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return errors.New("location name is required")
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	if loc.RadiusKM <= 0 {
		return errors.New("radius must be positive")
	}
	return nil
}

// runAddCmd executes the add command
func runAddCmd(cmd *cobra.Command, args []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}

	db, err := common.OpenDatabase(deps.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	adder := NewAdder(database.NewLocationRepository(db), deps.Logger)
	return adder.Start(cmd.Context(), &domain.Location{
		Name:                args[0],
		Latitude:            addLatitude,
		Longitude:           addLongitude,
		RadiusKM:            addRadiusKM,
		PollIntervalMinutes: addInterval,
		Enabled:             !addDisabled,
	})
}

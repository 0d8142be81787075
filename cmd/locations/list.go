package locations

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/domain"
	"github.com/jonesrussell/geosearch/internal/logger"
)

// TableRenderer handles rendering of locations in table format
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new table renderer
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{logger: log}
}

// RenderTable renders locations in a table format
func (r *TableRenderer) RenderTable(locations []*domain.Location) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"Name", "Latitude", "Longitude", "Radius (km)", "Interval", "Enabled", "Since ID", "Last Polled",
	})

	for _, loc := range locations {
		t.AppendRow(table.Row{
			loc.Name,
			fmt.Sprintf("%.4f", loc.Latitude),
			fmt.Sprintf("%.4f", loc.Longitude),
			fmt.Sprintf("%.1f", loc.RadiusKM),
			fmt.Sprintf("%dm", loc.PollIntervalMinutes),
			formatEnabled(loc.Enabled),
			loc.SinceID,
			formatLastPolled(loc.LastPolledAt),
		})
	}

	t.Render()
	return nil
}

func formatEnabled(enabled bool) string {
	if enabled {
		return "yes"
	}
	return "no"
}

func formatLastPolled(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}

// Lister handles the listing of locations
type Lister struct {
	repo     *database.LocationRepository
	logger   logger.Interface
	renderer *TableRenderer
}

// NewLister creates a new Lister instance
func NewLister(repo *database.LocationRepository, log logger.Interface) *Lister {
	return &Lister{
		repo:     repo,
		logger:   log,
		renderer: NewTableRenderer(log),
	}
}

// Start begins the location listing operation
func (l *Lister) Start(ctx context.Context, includeDisabled bool) error {
	l.logger.Info("Listing locations", "include_disabled", includeDisabled)

	locations, err := l.repo.List(ctx, !includeDisabled)
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}

	if len(locations) == 0 {
		l.logger.Info("No locations registered")
		return nil
	}

	return l.renderer.RenderTable(locations)
}

// runListCmd executes the list command
func runListCmd(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}

	db, err := common.OpenDatabase(deps.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	lister := NewLister(database.NewLocationRepository(db), deps.Logger)
	return lister.Start(cmd.Context(), listAll)
}

// Package archives implements the command-line interface for managing the
// archive files of a running GeoSearch service. This file contains the
// implementation of the list command that displays registered archives in a
// formatted table.
package archives

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	apitypes "github.com/jonesrussell/geosearch/internal/api"
	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/jonesrussell/geosearch/internal/logger"
)

// TableRenderer handles the display of archive data in a table format
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays the archives in a table format
func (r *TableRenderer) RenderTable(archives []apitypes.ArchiveInfo) error {
	// Initialize table writer with stdout as output
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	// Add table headers
	t.AppendHeader(table.Row{"Key", "Day", "Location", "State", "Path"})

	// Process each archive
	for i := range archives {
		day, location := splitKey(archives[i].Key)
		t.AppendRow(table.Row{
			archives[i].Key,
			day,
			location,
			archives[i].State,
			archives[i].Path,
		})
	}

	// Render the table
	t.Render()
	return nil
}

// splitKey breaks an archive key into its day and location columns. A key
// that does not parse renders with placeholder columns rather than failing
// the whole listing.
func splitKey(key string) (day, location string) {
	parsed, loc, err := archive.ParseKey(key)
	if err != nil {
		return "-", "-"
	}
	return parsed.Format("2006-01-02"), loc
}

// Lister handles listing archives
type Lister struct {
	client   *Client
	logger   logger.Interface
	renderer *TableRenderer
}

// NewLister creates a new Lister instance
func NewLister(client *Client, log logger.Interface, renderer *TableRenderer) *Lister {
	return &Lister{
		client:   client,
		logger:   log,
		renderer: renderer,
	}
}

// Start begins the list operation
func (l *Lister) Start(ctx context.Context) error {
	l.logger.Info("Listing archives")

	archives, err := l.client.ListArchives(ctx)
	if err != nil {
		return fmt.Errorf("failed to get archives: %w", err)
	}

	if len(archives) == 0 {
		l.logger.Info("No archives registered")
		return nil
	}

	// Render the table
	return l.renderer.RenderTable(archives)
}

// runListCmd executes the list command
func runListCmd(cmd *cobra.Command, _ []string) error {
	// Get dependencies
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	client := NewClient(serverBaseURL(deps.Config))
	renderer := NewTableRenderer(deps.Logger)
	lister := NewLister(client, deps.Logger, renderer)

	return lister.Start(cmd.Context())
}

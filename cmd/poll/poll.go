// Package poll implements the one-shot ingestion command.
package poll

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/ingest"
)

var (
	locationName string
	allLocations bool
)

// Command returns the poll command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll locations once and archive the results",
		Long: `Poll the search API once and append the response pages to the current
day's archives. Without flags, only locations whose poll interval has
elapsed are polled. --all polls every enabled location regardless of
interval; --location polls a single location by name.

Each invocation starts with a fresh archive registry. A day collected
across many invocations should run under the scheduler or httpd command
instead, which keep the day's archives open for their whole lifetime.`,
		RunE: runPoll,
	}

	cmd.Flags().StringVar(&locationName, "location", "", "poll a single location by name")
	cmd.Flags().BoolVar(&allLocations, "all", false, "poll every enabled location, ignoring poll intervals")

	return cmd
}

// runPoll executes the poll command
func runPoll(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Get dependencies
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Connect to the database
	db, err := common.OpenDatabase(deps.Config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Build the ingestion pipeline
	service, err := common.CreatePipeline(deps, db)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	repo := database.NewLocationRepository(db)

	switch {
	case locationName != "":
		return pollOne(ctx, service, repo, locationName)
	case allLocations:
		return pollAll(ctx, service, repo)
	default:
		return service.PollDue(ctx)
	}
}

// pollOne polls a single location by name.
func pollOne(
	ctx context.Context,
	service *ingest.Service,
	repo *database.LocationRepository,
	name string,
) error {
	loc, err := repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("look up location %q: %w", name, err)
	}
	return service.PollLocation(ctx, loc)
}

// pollAll polls every enabled location, ignoring poll intervals.
func pollAll(ctx context.Context, service *ingest.Service, repo *database.LocationRepository) error {
	locs, err := repo.List(ctx, true)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}

	failed := 0
	for _, loc := range locs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if pollErr := service.PollLocation(ctx, loc); pollErr != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d location polls failed", failed, len(locs))
	}
	return nil
}

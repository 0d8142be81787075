// Package scheduler implements the headless scheduler command that polls
// due locations and rotates finished days on cron schedules.
package scheduler

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/job"
)

// signalChannelBufferSize is the buffer for the shutdown signal channel.
const signalChannelBufferSize = 1

// Cmd represents the scheduler command.
var Cmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the polling scheduler",
	Long: `Start the scheduler that polls due locations on the configured cron
schedule and seals finished days into their final archive form. The
scheduler runs continuously until interrupted with Ctrl+C.`,
	RunE: runScheduler,
}

// runScheduler executes the scheduler command
func runScheduler(_ *cobra.Command, _ []string) error {
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

	// Create and start the scheduler
	schedulerService := job.NewScheduler(&deps.Config.Scheduler, service, deps.Logger)
	deps.Logger.Info("Starting scheduler service")
	if startErr := schedulerService.Start(); startErr != nil {
		deps.Logger.Error("Failed to start scheduler service", "error", startErr)
		return fmt.Errorf("failed to start scheduler service: %w", startErr)
	}

	// Wait for interrupt signal
	deps.Logger.Info("Waiting for interrupt signal")
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	deps.Logger.Info("Shutdown signal received", "signal", sig.String())

	// Stop waits for a running poll or rotation to finish
	schedulerService.Stop()

	deps.Logger.Info("Scheduler stopped successfully", "metrics", service.Metrics().Snapshot())
	return nil
}

// Command returns the scheduler command for use in the root command.
func Command() *cobra.Command {
	return Cmd
}

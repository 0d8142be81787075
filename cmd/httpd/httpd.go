// Package httpd implements the HTTP API server command for the archiving
// service.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/geosearch/cmd/common"
	"github.com/jonesrussell/geosearch/internal/api"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/ingest"
	"github.com/jonesrussell/geosearch/internal/job"
	"github.com/jonesrussell/geosearch/internal/logger"
)

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// Command returns the httpd command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server together with the polling scheduler.
The server exposes archive, location, and poll endpoints and runs until
interrupted with SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start starts the HTTP server and runs until interrupted.
// It handles graceful shutdown on SIGINT or SIGTERM signals.
func Start() error {
	// Phase 1: Initialize dependencies
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Phase 2: Connect to the database
	db, err := common.OpenDatabase(deps.Config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Phase 3: Build the ingestion pipeline
	service, err := common.CreatePipeline(deps, db)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	// Phase 4: Start the cron scheduler
	scheduler := startScheduler(deps, service)

	// Phase 5: Start HTTP server
	server, errChan := startHTTPServer(deps, service, db)

	// Phase 6: Run server until interrupted
	return runServerUntilInterrupt(deps.Logger, server, scheduler, service, errChan)
}

// startScheduler creates and starts the polling and rotation schedules.
// Returns nil if the scheduler cannot be started; the API keeps serving and
// polls can still be triggered manually.
func startScheduler(deps common.CommandDeps, service *ingest.Service) *job.Scheduler {
	scheduler := job.NewScheduler(&deps.Config.Scheduler, service, deps.Logger)
	if err := scheduler.Start(); err != nil {
		deps.Logger.Warn("Failed to start scheduler, continuing without scheduled polls", "error", err)
		return nil
	}
	return scheduler
}

// startHTTPServer creates and starts the HTTP server.
// Returns the server and an error channel for server errors.
func startHTTPServer(deps common.CommandDeps, service *ingest.Service, db *sqlx.DB) (*http.Server, chan error) {
	server := api.StartHTTPServer(api.Params{
		Logger:    deps.Logger,
		Service:   service,
		Locations: database.NewLocationRepository(db),
	}, &deps.Config.Server)

	// Start server in goroutine
	deps.Logger.Info("Starting HTTP server", "addr", deps.Config.Server.Address)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return server, errChan
}

// runServerUntilInterrupt runs the server until interrupted by signal or error.
func runServerUntilInterrupt(
	log logger.Interface,
	server *http.Server,
	scheduler *job.Scheduler,
	service *ingest.Service,
	errChan chan error,
) error {
	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal or error
	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		return shutdownServer(log, server, scheduler, service, sig)
	}
}

// shutdownServer performs graceful shutdown of the server and scheduler.
func shutdownServer(
	log logger.Interface,
	server *http.Server,
	scheduler *job.Scheduler,
	service *ingest.Service,
	sig os.Signal,
) error {
	log.Info("Shutdown signal received", "signal", sig.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	// Stop scheduler first
	if scheduler != nil {
		log.Info("Stopping scheduler")
		scheduler.Stop()
	}

	// Stop HTTP server
	log.Info("Stopping HTTP server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully", "metrics", service.Metrics().Snapshot())
	return nil
}

// Package helpers provides testing utilities for integration tests.
package helpers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jonesrussell/geosearch/internal/database"
)

const (
	// DefaultPostgresStartupTimeout is the default timeout for PostgreSQL to start.
	DefaultPostgresStartupTimeout = 60 * time.Second

	// postgresImage is the container image used for integration tests.
	postgresImage = "postgres:16-alpine"

	testDatabase = "geosearch_test"
	testUser     = "geosearch"
	testPassword = "geosearch"
)

// PostgresContainer manages a test PostgreSQL instance.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	Host      string
	Port      int
}

// StartPostgres starts a PostgreSQL container for testing.
// It returns a container instance that should be stopped with Stop().
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	pgContainer, err := postgres.Run(
		ctx,
		postgresImage,
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUser),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			// The image restarts once during init, so wait for the second
			// ready line.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(DefaultPostgresStartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	port, err := strconv.Atoi(mappedPort.Port())
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to parse container port: %w", err)
	}

	return &PostgresContainer{
		Container: pgContainer,
		Host:      host,
		Port:      port,
	}, nil
}

// Stop stops and removes the PostgreSQL container.
func (p *PostgresContainer) Stop(ctx context.Context) error {
	if p.Container == nil {
		return nil
	}
	return p.Container.Terminate(ctx)
}

// Config returns the database configuration pointing at the container.
func (p *PostgresContainer) Config() database.Config {
	return database.Config{
		Host:     p.Host,
		Port:     p.Port,
		User:     testUser,
		Password: testPassword,
		DBName:   testDatabase,
		SSLMode:  "disable",
	}
}

// MigrateUp applies all migrations from the given source URL, for example
// "file://../../migrations" relative to the test's working directory.
func (p *PostgresContainer) MigrateUp(sourceURL string) error {
	m, err := migrate.New(sourceURL, p.Config().URL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

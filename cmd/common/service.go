package common

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/jonesrussell/geosearch/internal/config"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/ingest"
	"github.com/jonesrussell/geosearch/internal/mirror"
	"github.com/jonesrussell/geosearch/internal/search"
)

// DatabaseConfig converts the application config to database.Config.
// This eliminates the DRY violation of repeated field mapping.
func DatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}
}

// OpenDatabase connects to PostgreSQL using the configured settings.
func OpenDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.NewPostgresConnection(DatabaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// CreateSearchClient creates the search API client from configuration.
func CreateSearchClient(cfg *config.SearchConfig) search.Client {
	opts := []search.Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, search.WithBaseURL(cfg.BaseURL))
	}
	if cfg.BearerToken != "" {
		opts = append(opts, search.WithBearerToken(cfg.BearerToken))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, search.WithUserAgent(cfg.UserAgent))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, search.WithTimeout(cfg.Timeout))
	}
	return search.NewHTTPClient(opts...)
}

// CreatePipeline wires the archive registry, search client, mirror uploader,
// and location repository into an ingestion service. This consolidates the
// construction shared by the httpd, scheduler, and poll commands.
func CreatePipeline(deps CommandDeps, db *sqlx.DB) (*ingest.Service, error) {
	registry, err := archive.NewRegistry(deps.Config.Archive.Dir)
	if err != nil {
		return nil, fmt.Errorf("create archive registry: %w", err)
	}

	uploader, err := mirror.NewUploader(&deps.Config.Mirror, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("create mirror uploader: %w", err)
	}

	return ingest.NewService(ingest.Params{
		Registry:  registry,
		Client:    CreateSearchClient(&deps.Config.Search),
		Locations: database.NewLocationRepository(db),
		Uploader:  uploader,
		Logger:    deps.Logger,
		PageSize:  deps.Config.Search.PageSize,
		MaxPages:  deps.Config.Search.MaxPages,
	}), nil
}

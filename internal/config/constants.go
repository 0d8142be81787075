// Package config provides configuration management for the GeoSearch service.
package config

import "time"

// Default configuration values.
const (
	// DefaultAppName is the default application name
	DefaultAppName = "geosearch"
	// DefaultAppVersion is the default application version
	DefaultAppVersion = "1.0.0"
	// DefaultEnvironment is the default application environment
	DefaultEnvironment = "production"

	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"
	// DefaultReadTimeout is the default HTTP server read timeout
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout is the default HTTP server write timeout
	DefaultWriteTimeout = 15 * time.Second
	// DefaultIdleTimeout is the default HTTP server idle timeout
	DefaultIdleTimeout = 60 * time.Second

	// DefaultPageSize is the default number of posts requested per page
	DefaultPageSize = 100
	// DefaultMaxPages is the default bound on pages per location per poll
	DefaultMaxPages = 10
	// DefaultSearchTimeout is the default timeout for one search request
	DefaultSearchTimeout = 30 * time.Second

	// DefaultUploadTimeout is the default timeout for one mirror upload
	DefaultUploadTimeout = 30 * time.Second

	// DefaultPollSpec polls due locations every five minutes
	DefaultPollSpec = "*/5 * * * *"
	// DefaultSealSpec seals finished days five minutes past midnight
	DefaultSealSpec = "5 0 * * *"
)

// Package config provides configuration management for the GeoSearch
// service. Values come from the config file, environment variables, and
// command-line flags through viper; defaults are registered by the root
// command.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidEnvironments defines the valid environment types.
var ValidEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
	"test":        true,
}

// Config represents the application configuration.
type Config struct {
	// App holds application-level settings
	App AppConfig `yaml:"app"`
	// Logger holds logging settings
	Logger LoggerConfig `yaml:"logger"`
	// Server holds HTTP server settings
	Server ServerConfig `yaml:"server"`
	// Database holds PostgreSQL settings
	Database DatabaseConfig `yaml:"database"`
	// Archive holds archive file settings
	Archive ArchiveConfig `yaml:"archive"`
	// Search holds search API client settings
	Search SearchConfig `yaml:"search"`
	// Mirror holds object storage mirror settings
	Mirror MirrorConfig `yaml:"mirror"`
	// Scheduler holds cron schedule settings
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// AppConfig represents application-specific settings.
type AppConfig struct {
	// Name is the name of the application
	Name string `yaml:"name"`
	// Version is the version of the application
	Version string `yaml:"version"`
	// Environment is the application environment (development, staging, production)
	Environment string `yaml:"environment"`
	// Debug indicates whether debug mode is enabled
	Debug bool `yaml:"debug"`
}

// LoggerConfig represents logging settings.
type LoggerConfig struct {
	// Level is the minimum logging level
	Level string `yaml:"level"`
	// Development enables development-friendly console output
	Development bool `yaml:"development"`
	// Encoding selects the output format, "console" or "json"
	Encoding string `yaml:"encoding"`
}

// ServerConfig represents HTTP server settings.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address"`
	// ReadTimeout bounds reading a request
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout bounds writing a response
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// IdleTimeout bounds keep-alive connections
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig represents PostgreSQL settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// ArchiveConfig represents archive file settings.
type ArchiveConfig struct {
	// Dir is the directory archive files are written under. Empty falls
	// back to the system temporary directory.
	Dir string `yaml:"dir"`
}

// SearchConfig represents search API client settings.
type SearchConfig struct {
	// BaseURL is the root of the search API
	BaseURL string `yaml:"base_url"`
	// BearerToken authenticates requests
	BearerToken string `yaml:"bearer_token"`
	// UserAgent identifies this client
	UserAgent string `yaml:"user_agent"`
	// PageSize is the number of posts requested per page
	PageSize int `yaml:"page_size"`
	// MaxPages bounds the pages fetched per location per poll
	MaxPages int `yaml:"max_pages"`
	// Timeout bounds one search request
	Timeout time.Duration `yaml:"timeout"`
}

// MirrorConfig represents object storage mirror settings for sealed
// archives.
type MirrorConfig struct {
	// Enabled toggles mirroring on/off
	Enabled bool `yaml:"enabled"`
	// Endpoint is the MinIO server address (e.g., "minio:9000")
	Endpoint string `yaml:"endpoint"`
	// AccessKey for MinIO authentication
	AccessKey string `yaml:"access_key"`
	// SecretKey for MinIO authentication
	SecretKey string `yaml:"secret_key"`
	// UseSSL enables HTTPS for MinIO connections
	UseSSL bool `yaml:"use_ssl"`
	// Bucket is the bucket sealed archives are uploaded to
	Bucket string `yaml:"bucket"`
	// Compress enables gzip compression before upload
	Compress bool `yaml:"compress"`
	// FailSilently keeps sealing available even if mirroring fails
	FailSilently bool `yaml:"fail_silently"`
	// UploadTimeout bounds one upload operation
	UploadTimeout time.Duration `yaml:"upload_timeout"`
}

// SchedulerConfig represents cron schedule settings.
type SchedulerConfig struct {
	// PollSpec is the cron spec for polling due locations
	PollSpec string `yaml:"poll_spec"`
	// SealSpec is the cron spec for sealing finished days
	SealSpec string `yaml:"seal_spec"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("environment must be specified")
	}
	if !ValidEnvironments[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}
	if c.App.Name == "" {
		return errors.New("application name must be specified")
	}

	if c.Search.PageSize <= 0 {
		return errors.New("search page size must be positive")
	}
	if c.Search.MaxPages <= 0 {
		return errors.New("search max pages must be positive")
	}

	if c.Mirror.Enabled {
		if c.Mirror.Endpoint == "" {
			return errors.New("mirror endpoint must be specified when mirroring is enabled")
		}
		if c.Mirror.Bucket == "" {
			return errors.New("mirror bucket must be specified when mirroring is enabled")
		}
	}

	if c.Scheduler.PollSpec == "" {
		return errors.New("scheduler poll spec must be specified")
	}
	if c.Scheduler.SealSpec == "" {
		return errors.New("scheduler seal spec must be specified")
	}

	return nil
}

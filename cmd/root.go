// Package cmd implements the command-line interface for GeoSearch.
// It provides the root command and subcommands for archiving geo-tagged
// search results.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/geosearch/cmd/archives"
	"github.com/jonesrussell/geosearch/cmd/httpd"
	"github.com/jonesrussell/geosearch/cmd/locations"
	"github.com/jonesrussell/geosearch/cmd/migrate"
	"github.com/jonesrussell/geosearch/cmd/poll"
	cmdscheduler "github.com/jonesrussell/geosearch/cmd/scheduler"
	"github.com/jonesrussell/geosearch/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the GeoSearch CLI.
	rootCmd = &cobra.Command{
		Use:   "geosearch",
		Short: "Archive geo-tagged search results by day and location",
		Long: `GeoSearch polls a geo search API for registered locations and archives
the raw response pages into one JSON file per day per location. Finished
days are sealed into valid JSON array documents and mirrored to object
storage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("geosearch version %s\n", config.DefaultAppVersion)
		},
	})

	// Add subcommands
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(poll.Command())
	rootCmd.AddCommand(archives.Command())
	rootCmd.AddCommand(locations.Command())
	rootCmd.AddCommand(migrate.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// This ensures environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults (only used if environment variables or config file don't provide values)
	setDefaults()

	// Read config file
	// Note: Config file is optional - if not found, we'll use defaults and environment variables
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	// Bind command-line flags to Viper
	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	// Map environment variables to config keys
	if err := bindAppEnvVars(); err != nil {
		return err
	}
	if err := bindSearchEnvVars(); err != nil {
		return err
	}
	if err := bindMirrorEnvVars(); err != nil {
		return err
	}

	// Set development logging settings
	setupDevelopmentLogging()

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("failed to bind config flag: %w", err)
	}
	return nil
}

// bindAppEnvVars binds application and logger environment variables to config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	// Support both GEOSEARCH_ARCHIVE_DIR and the historical SEARCH_GEO_DIR
	if err := viper.BindEnv("archive.dir", "GEOSEARCH_ARCHIVE_DIR", "SEARCH_GEO_DIR"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_ARCHIVE_DIR: %w", err)
	}
	return nil
}

// bindSearchEnvVars binds search API environment variables to config keys.
func bindSearchEnvVars() error {
	if err := viper.BindEnv("search.base_url", "GEOSEARCH_API_URL", "SEARCH_API_URL"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_API_URL: %w", err)
	}
	if err := viper.BindEnv("search.bearer_token", "GEOSEARCH_API_TOKEN", "SEARCH_API_TOKEN"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_API_TOKEN: %w", err)
	}
	if err := viper.BindEnv("search.page_size", "GEOSEARCH_PAGE_SIZE"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_PAGE_SIZE: %w", err)
	}
	if err := viper.BindEnv("search.max_pages", "GEOSEARCH_MAX_PAGES"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MAX_PAGES: %w", err)
	}
	return nil
}

// bindMirrorEnvVars binds object storage mirror environment variables to config keys.
func bindMirrorEnvVars() error {
	if err := viper.BindEnv("mirror.enabled", "GEOSEARCH_MINIO_ENABLED"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MINIO_ENABLED: %w", err)
	}
	if err := viper.BindEnv("mirror.endpoint", "GEOSEARCH_MINIO_ENDPOINT", "MINIO_ENDPOINT"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MINIO_ENDPOINT: %w", err)
	}
	if err := viper.BindEnv("mirror.access_key", "GEOSEARCH_MINIO_ACCESS_KEY", "MINIO_ROOT_USER"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MINIO_ACCESS_KEY: %w", err)
	}
	if err := viper.BindEnv("mirror.secret_key", "GEOSEARCH_MINIO_SECRET_KEY", "MINIO_ROOT_PASSWORD"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MINIO_SECRET_KEY: %w", err)
	}
	if err := viper.BindEnv("mirror.use_ssl", "GEOSEARCH_MINIO_USE_SSL"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MINIO_USE_SSL: %w", err)
	}
	if err := viper.BindEnv("mirror.bucket", "GEOSEARCH_MINIO_BUCKET"); err != nil {
		return fmt.Errorf("failed to bind GEOSEARCH_MINIO_BUCKET: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures development logging settings based on environment and debug flag.
func setupDevelopmentLogging() {
	// Check both the flag variable and Viper to ensure we catch the debug flag
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	// Only set debug level if explicitly requested via flag or APP_DEBUG,
	// never just because the environment is "development"
	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	// Development mode switches formatting, not the level
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	// Synchronize global Debug variable with Viper's value
	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        config.DefaultAppName,
		"version":     config.DefaultAppVersion,
		"environment": config.DefaultEnvironment,
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
	})

	// Server defaults - production safe
	viper.SetDefault("server", map[string]any{
		"address":       config.DefaultServerAddress,
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	// Database defaults
	viper.SetDefault("database", map[string]any{
		"host":     "localhost",
		"port":     5432,
		"user":     "geosearch",
		"password": "",
		"name":     "geosearch",
		"sslmode":  "disable",
	})

	// Archive defaults; an empty dir falls back to the system temp directory
	viper.SetDefault("archive", map[string]any{
		"dir": "",
	})

	// Search API defaults
	viper.SetDefault("search", map[string]any{
		"base_url":     "http://localhost:8060",
		"bearer_token": "",
		"user_agent":   "geosearch/" + config.DefaultAppVersion,
		"page_size":    config.DefaultPageSize,
		"max_pages":    config.DefaultMaxPages,
		"timeout":      "30s",
	})

	// Mirror defaults - disabled until an endpoint is configured
	viper.SetDefault("mirror", map[string]any{
		"enabled":        false,
		"endpoint":       "",
		"access_key":     "",
		"secret_key":     "",
		"use_ssl":        false,
		"bucket":         "geosearch-archives",
		"compress":       false,
		"fail_silently":  true,
		"upload_timeout": "30s",
	})

	// Scheduler defaults: poll every five minutes, seal shortly after midnight
	viper.SetDefault("scheduler", map[string]any{
		"poll_spec": config.DefaultPollSpec,
		"seal_spec": config.DefaultSealSpec,
	})
}

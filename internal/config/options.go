package config

// New creates a configuration with defaults, for tests and programmatic
// construction. Production code goes through Load.
func New(opts ...Option) *Config {
	cfg := &Config{
		App: AppConfig{
			Name:        DefaultAppName,
			Version:     DefaultAppVersion,
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "console",
		},
		Server: ServerConfig{
			Address:      DefaultServerAddress,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "geosearch",
			Name:    "geosearch",
			SSLMode: "disable",
		},
		Search: SearchConfig{
			PageSize: DefaultPageSize,
			MaxPages: DefaultMaxPages,
			Timeout:  DefaultSearchTimeout,
		},
		Mirror: MirrorConfig{
			Enabled:       false,
			UseSSL:        false,
			Bucket:        "geosearch-archives",
			FailSilently:  true,
			UploadTimeout: DefaultUploadTimeout,
		},
		Scheduler: SchedulerConfig{
			PollSpec: DefaultPollSpec,
			SealSpec: DefaultSealSpec,
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option is a function that adjusts a configuration.
type Option func(*Config)

// WithEnvironment sets the application environment.
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.App.Environment = env
	}
}

// WithDebug sets the debug mode.
func WithDebug(debug bool) Option {
	return func(c *Config) {
		c.App.Debug = debug
	}
}

// WithArchiveDir sets the archive directory.
func WithArchiveDir(dir string) Option {
	return func(c *Config) {
		c.Archive.Dir = dir
	}
}

// WithSearchBaseURL sets the search API base URL.
func WithSearchBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.Search.BaseURL = baseURL
	}
}

// WithMirrorEnabled toggles mirroring of sealed archives.
func WithMirrorEnabled(enabled bool) Option {
	return func(c *Config) {
		c.Mirror.Enabled = enabled
	}
}

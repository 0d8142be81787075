package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load builds the configuration from the global viper instance and
// validates it. Defaults, the config file, environment variables, and bound
// flags have all been merged by the time this runs.
func Load() (*Config, error) {
	return FromViper(viper.GetViper())
}

// FromViper builds the configuration from a specific viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Version:     v.GetString("app.version"),
			Environment: v.GetString("app.environment"),
			Debug:       v.GetBool("app.debug"),
		},
		Logger: LoggerConfig{
			Level:       v.GetString("logger.level"),
			Development: v.GetBool("logger.development"),
			Encoding:    v.GetString("logger.encoding"),
		},
		Server: ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Archive: ArchiveConfig{
			Dir: v.GetString("archive.dir"),
		},
		Search: SearchConfig{
			BaseURL:     v.GetString("search.base_url"),
			BearerToken: v.GetString("search.bearer_token"),
			UserAgent:   v.GetString("search.user_agent"),
			PageSize:    v.GetInt("search.page_size"),
			MaxPages:    v.GetInt("search.max_pages"),
			Timeout:     v.GetDuration("search.timeout"),
		},
		Mirror: MirrorConfig{
			Enabled:       v.GetBool("mirror.enabled"),
			Endpoint:      v.GetString("mirror.endpoint"),
			AccessKey:     v.GetString("mirror.access_key"),
			SecretKey:     v.GetString("mirror.secret_key"),
			UseSSL:        v.GetBool("mirror.use_ssl"),
			Bucket:        v.GetString("mirror.bucket"),
			Compress:      v.GetBool("mirror.compress"),
			FailSilently:  v.GetBool("mirror.fail_silently"),
			UploadTimeout: v.GetDuration("mirror.upload_timeout"),
		},
		Scheduler: SchedulerConfig{
			PollSpec: v.GetString("scheduler.poll_spec"),
			SealSpec: v.GetString("scheduler.seal_spec"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

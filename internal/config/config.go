// Package config loads the service configuration from an optional YAML file
// and ERRCAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ERRCAT"

// Config is the service configuration.
type Config struct {
	Server     Server
	Database   Database
	Log        Log
	Pagination Pagination
}

type Server struct {
	Addr string
	// BaseURL is the externally visible origin used in pagination links,
	// e.g. "https://api.example.com". Empty means derive it per request.
	BaseURL string
}

type Database struct {
	// Driver is one of sqlite, postgres or mysql.
	Driver string
	DSN    string
}

type Log struct {
	Level    string
	Encoding string
}

type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// Load reads path (when non-empty) and applies environment overrides such as
// ERRCAT_DATABASE_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			Addr:    v.GetString("server.addr"),
			BaseURL: strings.TrimRight(v.GetString("server.base_url"), "/"),
		},
		Database: Database{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
		},
		Log: Log{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		Pagination: Pagination{
			DefaultLimit: v.GetInt("pagination.default_limit"),
			MaxLimit:     v.GetInt("pagination.max_limit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:errcatalog.db?_foreign_keys=on")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("pagination.default_limit", 20)
	v.SetDefault("pagination.max_limit", 100)
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver '%s'", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.Pagination.MaxLimit < 1 {
		errs = append(errs, fmt.Errorf("pagination max limit must be positive, got %d", c.Pagination.MaxLimit))
	}
	if c.Pagination.DefaultLimit < 1 || c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		errs = append(errs, fmt.Errorf("pagination default limit must be between 1 and %d, got %d",
			c.Pagination.MaxLimit, c.Pagination.DefaultLimit))
	}

	return errors.Join(errs...)
}

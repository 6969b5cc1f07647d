// Package config loads the server configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"hotseat/internal/obslog"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Storage StorageConfig  `yaml:"storage"`
	Prefs   PrefsConfig    `yaml:"prefs"`
	Log     obslog.Options `yaml:"log"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Dev         bool   `yaml:"dev"`
	RateLimit   int    `yaml:"rate_limit"` // requests per second per IP
	MaxSessions int    `yaml:"max_sessions"`
}

// StorageConfig selects the archive; an empty DSN disables it
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

type PrefsConfig struct {
	Backend       string        `yaml:"backend"` // memory or redis
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:        "localhost",
			Port:        8080,
			RateLimit:   10,
			MaxSessions: 100,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
		},
		Prefs: PrefsConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			TTL:       30 * 24 * time.Hour,
		},
		Log: obslog.DefaultOptions(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be positive"))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("server.max_sessions must be positive"))
	}

	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be sqlite or postgres, got %q", c.Storage.Driver))
	}

	switch c.Prefs.Backend {
	case "memory":
	case "redis":
		if c.Prefs.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("prefs.redis_addr required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("prefs.backend must be memory or redis, got %q", c.Prefs.Backend))
	}

	switch c.Log.Format {
	case "", "legacy", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be legacy, json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Addr is the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"crowdsense/internal/models"
)

// Config is the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // sqlite3 or postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Kitchen struct {
		// Stations overrides the default five-station deployment
		Stations []models.StationConfig `yaml:"stations"`

		MenuCacheTTLMinutes     int `yaml:"menu_cache_ttl_minutes"`
		OverrideCooldownMinutes int `yaml:"override_cooldown_minutes"`
	} `yaml:"kitchen"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = "crowdsense.db"
	cfg.Kitchen.MenuCacheTTLMinutes = 10
	cfg.Kitchen.OverrideCooldownMinutes = 30
	cfg.LogLevel = "info"
	return cfg
}

// Load reads and validates the configuration file. Fields left unset
// fall back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configuration the service cannot safely run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("server ports must be positive")
	}
	if c.Database.Driver != "sqlite3" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if len(c.Kitchen.Stations) > 0 {
		if err := models.ValidateStations(c.Kitchen.Stations); err != nil {
			return fmt.Errorf("invalid station config: %w", err)
		}
	}
	return nil
}

// Stations returns the configured stations, or the reference deployment
func (c *Config) Stations() []models.StationConfig {
	if len(c.Kitchen.Stations) > 0 {
		return c.Kitchen.Stations
	}
	return models.DefaultStations
}

// MenuCacheTTL returns the menu cache lifetime
func (c *Config) MenuCacheTTL() time.Duration {
	return time.Duration(c.Kitchen.MenuCacheTTLMinutes) * time.Minute
}

// OverrideCooldown returns how long manual overrides hold
func (c *Config) OverrideCooldown() time.Duration {
	return time.Duration(c.Kitchen.OverrideCooldownMinutes) * time.Minute
}

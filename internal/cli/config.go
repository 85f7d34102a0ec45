package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/veloxq/dialect/sql"
)

// Environment variables overriding the configuration file.
const (
	EnvDriver = "VELOXQ_DRIVER"
	EnvDSN    = "VELOXQ_DSN"
)

// Config is the configuration of the demo database.
type Config struct {
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	Workers       int           `yaml:"workers"`
	Seed          bool          `yaml:"seed"`
}

// DefaultConfig returns a configuration using a private in-memory SQLite
// database.
func DefaultConfig() Config {
	return Config{
		Driver:        sql.SQLite,
		DSN:           sql.MemoryDSN("veloxq"),
		SlowThreshold: 100 * time.Millisecond,
		Workers:       4,
		Seed:          true,
	}
}

// LoadConfig reads the configuration at path on top of the defaults and
// applies the environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv(EnvDriver); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		cfg.DSN = v
	}
	return cfg, cfg.Validate()
}

// Validate reports whether the configuration can be used.
func (c Config) Validate() error {
	if _, _, err := sql.Resolve(c.Driver); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("config: dsn is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	return nil
}

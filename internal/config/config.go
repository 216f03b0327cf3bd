package config

import (
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Labels   LabelsConfig   `yaml:"labels"`
}

// ServerConfig configures the admin API listener
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StoreConfig selects the key-value backend: "sql" or "redis".
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Seed    bool   `yaml:"seed"`
}

// DatabaseConfig configures the embedded SQL store
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	LogSQL       bool   `yaml:"log_sql"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig configures the redis store
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LoggingConfig holds a loggo logger specification such as
// "<root>=INFO;brewcart.storage=DEBUG".
type LoggingConfig struct {
	Spec string `yaml:"spec"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LabelsConfig caps the printed label lines
type LabelsConfig struct {
	Line1Max int `yaml:"line1_max"`
	Line2Max int `yaml:"line2_max"`
}

// Default returns the in-source configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Store:  StoreConfig{Backend: "sql", Seed: true},
		Database: DatabaseConfig{
			Driver:       "sqlite3",
			DSN:          "brewcart.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "brewcart"},
		Logging: LoggingConfig{Spec: "<root>=INFO"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		Labels:  LabelsConfig{Line1Max: 24, Line2Max: 32},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Annotatef(err, "reading config %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Annotatef(err, "parsing config %q", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NotValidf("server port %d", c.Server.Port)
	}
	switch c.Store.Backend {
	case "sql":
		if c.Database.DSN == "" {
			return errors.NotValidf("empty database dsn")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return errors.NotValidf("empty redis addr")
		}
	default:
		return errors.NotValidf("store backend %q", c.Store.Backend)
	}
	if c.Labels.Line1Max <= 0 || c.Labels.Line2Max <= 0 {
		return errors.NotValidf("label line caps %d/%d", c.Labels.Line1Max, c.Labels.Line2Max)
	}
	return nil
}

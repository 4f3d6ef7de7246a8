// Package config loads the lattice server configuration from a YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	History  History  `yaml:"history"`
	Autosave Autosave `yaml:"autosave"`
	Store    Store    `yaml:"store"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr string `yaml:"addr"`
}

// History bounds the per-session undo stack.
type History struct {
	Limit int `yaml:"limit"`
}

// Autosave configures the periodic flush of dirty sessions.
// A zero interval disables autosave.
type Autosave struct {
	Interval time.Duration `yaml:"interval"`
}

// Store selects and configures the persistence backend.
type Store struct {
	// Backend is one of "memory", "file" or "redis".
	Backend string `yaml:"backend"`
	// Path is the directory for the file backend.
	Path string `yaml:"path"`
	// Redis configures the redis backend.
	Redis Redis `yaml:"redis"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server:   Server{Addr: ":8080"},
		History:  History{Limit: 50},
		Autosave: Autosave{Interval: 30 * time.Second},
		Store: Store{
			Backend: "memory",
			Path:    ".lattice/documents",
			Redis:   Redis{Addr: "localhost:6379"},
		},
	}
}

// Load reads the configuration file at path, falling back to defaults
// for missing values, then applies environment overrides. An empty
// path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LATTICE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LATTICE_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("LATTICE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("LATTICE_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("LATTICE_REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if v := os.Getenv("LATTICE_HISTORY_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.History.Limit = limit
		}
	}
	if v := os.Getenv("LATTICE_AUTOSAVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Autosave.Interval = d
		}
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history limit must not be negative")
	}
	return nil
}

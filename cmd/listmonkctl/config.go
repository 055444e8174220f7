package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the connection settings for listmonkctl. Values are
// layered: defaults, then the optional settings file, then environment
// variables.
type Config struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoadConfig loads configuration from the optional YAML settings file at
// path, then overrides with environment variables. A .env file in the
// working directory is loaded first if present. An empty path skips the
// settings file entirely; a non-empty path that does not exist is an
// error.
func LoadConfig(path string) (*Config, error) {
	// Best effort; the variables may come from the OS environment.
	_ = godotenv.Load()

	cfg := &Config{Timeout: 30 * time.Second}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse settings file: %w", err)
		}
	}

	cfg.applyEnvVars()

	if cfg.URL == "" {
		return nil, fmt.Errorf("no Listmonk URL configured (set LISTMONK_URL or the url settings key)")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("no credentials configured (set LISTMONK_USERNAME and LISTMONK_PASSWORD)")
	}
	return cfg, nil
}

func (c *Config) applyEnvVars() {
	if v := os.Getenv("LISTMONK_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("LISTMONK_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("LISTMONK_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("LISTMONK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

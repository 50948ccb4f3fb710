// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type UpstreamConfig struct {
	// BaseURL of the league REST API. GOLAZO_API_URL overrides it.
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	// Filename of the SQLite database holding admin sessions. This is the
	// only durable state the app keeps; everything else lives upstream.
	Filename string        `yaml:"filename"`
	TTL      time.Duration `yaml:"ttl"`
	// SweepSchedule is a cron expression for pruning expired sessions.
	SweepSchedule string `yaml:"sweep_schedule"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Sessions SessionConfig  `yaml:"sessions"`
}

// Load loads both .env and yaml configuration.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment overrides are enough to run.
	case err != nil:
		return nil, fmt.Errorf("error reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if url := os.Getenv("GOLAZO_API_URL"); url != "" {
		cfg.Upstream.BaseURL = url
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "Golazo"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "http://localhost:8080/api"
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 20 * time.Second
	}
	if c.Sessions.Filename == "" {
		c.Sessions.Filename = "golazo-sessions.db"
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = 8 * time.Hour
	}
	if c.Sessions.SweepSchedule == "" {
		c.Sessions.SweepSchedule = "*/15 * * * *"
	}
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port %d out of range", c.App.Port)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative")
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

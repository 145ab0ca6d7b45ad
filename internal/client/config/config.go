package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the SkillSwap client.
//
// Fields:
//   - APIBaseURL: root of the remote REST API, e.g. "https://host/api".
//   - RequestTimeout: per-call HTTP timeout enforced by the executor.
//   - DatabasePath: SQLite file holding the persisted session credential.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
//   - RateLimit: outbound requests per second; 0 disables throttling.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	LogLevel       string
	LogFormat      string
	RateLimit      float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://skill-exchange-server-u91b.vercel.app/api"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "skillswap.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.RateLimit = 0
}

// Load builds a Config from defaults, then environment (a .env file in the
// working directory is read first when present), then an optional config
// file selected by -c/-config, then command-line flags. Later sources win.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

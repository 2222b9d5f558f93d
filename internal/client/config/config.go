package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the storefront client.
//
// ServerURL is the base URL of the REST endpoints. SessionDBPath is the
// SQLite file holding the local session; it is shared by every run of the
// client on this machine.
type Config struct {
	ServerURL      string
	SessionDBPath  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionDBPath = "printshop-client.db"
	c.RequestTimeout = 10 * time.Second
}

// Validate checks that ServerURL is an absolute http(s) URL and the timeout
// is positive.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server url %q must be an absolute http(s) URL", c.ServerURL)
	}
	if c.SessionDBPath == "" {
		return fmt.Errorf("session db path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// LoadConfig applies defaults, then JSON (if -c/-config is given), then
// flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

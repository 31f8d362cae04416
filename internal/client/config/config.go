// Package config loads runtime settings for the nearwave client from
// defaults, an optional JSON file, and command-line flags.
package config

import "time"

// Config holds runtime settings for the nearwave client.
//
// Fields:
//   - ServerBaseURL: base URL of the remote directory/follow service.
//   - DatabasePath: SQLite file holding local users and the session token.
//   - DefaultScanRadius: radius used for the post-login directory preload.
//   - HTTPTimeout: per-request timeout for remote calls.
type Config struct {
	ServerBaseURL     string
	DatabasePath      string
	DefaultScanRadius int
	HTTPTimeout       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "nearwave.db"
	c.DefaultScanRadius = 100
	c.HTTPTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import (
	"time"

	"github.com/dmitrijs2005/assignhub/internal/common"
)

// DefaultServerURL is the backend the client talks to when nothing else is
// configured. Override at build time with
//
//	-ldflags "-X github.com/dmitrijs2005/assignhub/internal/client/config.DefaultServerURL=https://api.example.com"
var DefaultServerURL = common.DefaultServerURL

// Config holds runtime settings for the assignhub client.
//
// Fields:
//   - ServerURL: base URL of the REST backend.
//   - DBPath: SQLite file holding the session.
//   - RequestTimeout: per-request HTTP timeout.
//   - Verbose: debug logging to stderr.
//   - Color: ANSI colour in the financial view.
type Config struct {
	ServerURL      string
	DBPath         string
	RequestTimeout time.Duration
	Verbose        bool
	Color          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = DefaultServerURL
	c.DBPath = "assignhub.db"
	c.RequestTimeout = 30 * time.Second
	c.Verbose = false
	c.Color = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

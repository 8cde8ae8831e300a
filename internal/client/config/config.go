// Package config holds runtime settings for the ispcli client.
package config

import "time"

// Config holds runtime settings for the portal client.
//
// Fields:
//   - APIBaseURL: base URL of the portal HTTP API, including the /api prefix.
//   - StateDir: directory for the persisted session snapshot.
//   - RequestTimeout: per-request HTTP timeout.
//   - SearchDebounce: quiet period for the user dashboard search box.
//   - AdminSearchDebounce: quiet period for the admin dashboard search box.
//   - PurchaseDismissAfter: how long a successful purchase stays on screen
//     before the flow returns to idle.
type Config struct {
	APIBaseURL           string
	StateDir             string
	RequestTimeout       time.Duration
	SearchDebounce       time.Duration
	AdminSearchDebounce  time.Duration
	PurchaseDismissAfter time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.StateDir = "."
	c.RequestTimeout = 15 * time.Second
	c.SearchDebounce = 500 * time.Millisecond
	c.AdminSearchDebounce = 200 * time.Millisecond
	c.PurchaseDismissAfter = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

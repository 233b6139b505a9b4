// Package config handles configuration for the client, including defaults,
// JSON overlay, and command-line flags.
package config

import "time"

// Environment selects which backend the client talks to.
type Environment string

const (
	EnvProduction  Environment = "production"
	EnvStaging     Environment = "staging"
	EnvDevelopment Environment = "development"
)

// baseURLs maps each environment to its default API base URL.
var baseURLs = map[Environment]string{
	EnvProduction:  "https://api.sessionkeeper.app",
	EnvStaging:     "https://staging.api.sessionkeeper.app",
	EnvDevelopment: "http://127.0.0.1:8080",
}

// Config holds runtime settings for the client.
//
// Fields:
//   - Environment: which backend to target (production/staging/development).
//   - BaseURL: API base URL; empty means "derive from Environment".
//   - LocalDBPath: path of the SQLite file holding session and cache data.
//   - CacheTTL: expiry window for cached resources.
type Config struct {
	Environment Environment
	BaseURL     string
	LocalDBPath string
	CacheTTL    time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Environment = EnvDevelopment
	c.LocalDBPath = "sessionkeeper.db"
	c.CacheTTL = 5 * time.Minute
}

// ResolveBaseURL returns the explicit BaseURL when set, otherwise the URL
// registered for the configured environment.
func (c *Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if url, ok := baseURLs[c.Environment]; ok {
		return url
	}
	return baseURLs[EnvDevelopment]
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

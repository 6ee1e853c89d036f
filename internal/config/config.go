// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New builds a Config populated with defaults.
// - Load layers defaults, an optional YAML file and IPL_* environment variables.
// - Errors returned from Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"time"

	"github.com/okian/iplstats/internal/domain/alias"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds the two CSV tables.
	DataDir string `koanf:"data_dir"`

	// MatchesFile and DeliveriesFile are resolved relative to DataDir.
	MatchesFile    string `koanf:"matches_file"`
	DeliveriesFile string `koanf:"deliveries_file"`

	// CacheTTLSeconds bounds how long a loaded dataset is served before the
	// next read re-loads it. Zero or less disables expiry.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// OverIndexBase is the number the source files use for the first over
	// (0 or 1). Loaded overs are shifted so the first over is always 0.
	OverIndexBase int `koanf:"over_index_base"`

	// TopN limits player and team rankings.
	TopN int `koanf:"top_n"`

	// VenueTopN limits venue rankings.
	VenueTopN int `koanf:"venue_top_n"`

	// MinMatches is the played-match threshold for the consistent-teams view.
	MinMatches int `koanf:"min_matches"`

	// TeamAliases rewrites historical franchise names to canonical ones.
	TeamAliases []alias.Rule `koanf:"team_aliases"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindowSeconds per client IP. Zero disables.
	RateLimitRequests      int `koanf:"rate_limit_requests"`
	RateLimitWindowSeconds int `koanf:"rate_limit_window_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		DataDir:                "data",
		MatchesFile:            "matches.csv",
		DeliveriesFile:         "deliveries.csv",
		CacheTTLSeconds:        3600,
		OverIndexBase:          0,
		TopN:                   10,
		VenueTopN:              15,
		MinMatches:             10,
		TeamAliases:            alias.DefaultRules(),
		CORSAllowedOrigins:     []string{},
		RateLimitRequests:      120,
		RateLimitWindowSeconds: 60,
	}
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RateLimitWindow returns RateLimitWindowSeconds as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

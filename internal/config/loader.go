package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "IPL_"
	envConfig        = "IPL_CONFIG"
	maxOverIndexBase = 1
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if IPL_CONFIG is set
//  3. env (prefix IPL_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// IPL_DATA_DIR -> data_dir. Underscores are kept to match the flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if k.Exists("team_aliases") {
		// a configured list replaces the defaults instead of merging into them
		cfg.TeamAliases = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.MatchesFile) == "" || strings.TrimSpace(c.DeliveriesFile) == "":
		return fmt.Errorf("%w: matches_file and deliveries_file must not be empty", ErrInvalidConfig)
	case c.OverIndexBase < 0 || c.OverIndexBase > maxOverIndexBase:
		return fmt.Errorf("%w: over_index_base must be 0 or 1, got %d", ErrInvalidConfig, c.OverIndexBase)
	case c.TopN < 1 || c.VenueTopN < 1:
		return fmt.Errorf("%w: top_n and venue_top_n must be positive", ErrInvalidConfig)
	case c.MinMatches < 0:
		return fmt.Errorf("%w: min_matches must not be negative", ErrInvalidConfig)
	case c.RateLimitRequests > 0 && c.RateLimitWindowSeconds < 1:
		return fmt.Errorf("%w: rate_limit_window_seconds must be positive when rate limiting", ErrInvalidConfig)
	}
	for i, r := range c.TeamAliases {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("%w: team_aliases[%d] needs both from and to", ErrInvalidConfig, i)
		}
	}
	return nil
}

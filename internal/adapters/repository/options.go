package repository

import (
	"time"

	"github.com/okian/iplstats/internal/domain/alias"
	"github.com/okian/iplstats/pkg/logger"
)

// SourceOption configures a CSVSource.
type SourceOption func(*CSVSource)

// WithFiles overrides the table file names, relative to the data directory.
func WithFiles(matches, deliveries string) SourceOption {
	return func(s *CSVSource) {
		if matches != "" {
			s.matchesFile = matches
		}
		if deliveries != "" {
			s.deliveriesFile = deliveries
		}
	}
}

// WithAliases sets the team name rewrites applied while loading.
func WithAliases(m *alias.Map) SourceOption {
	return func(s *CSVSource) {
		s.aliases = m
	}
}

// WithOverIndexBase sets the number the files use for the first over.
func WithOverIndexBase(base int) SourceOption {
	return func(s *CSVSource) {
		if base >= 0 {
			s.overBase = base
		}
	}
}

// WithSourceLogger sets the logger.
func WithSourceLogger(l logger.Logger) SourceOption {
	return func(s *CSVSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// CacheOption configures a CachedStore.
type CacheOption func(*CachedStore)

// WithTTL sets how long an epoch is served before the next read reloads it.
// Zero or less never expires.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedStore) {
		c.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedStore) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(l logger.Logger) CacheOption {
	return func(c *CachedStore) {
		if l != nil {
			c.logger = l
		}
	}
}

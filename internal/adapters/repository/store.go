// Package repository reads the match and delivery tables and serves them
// from a process-wide cache.
package repository

import (
	"context"
	"time"

	"github.com/okian/iplstats/internal/domain/model"
)

// Loader reads a complete dataset from its source.
type Loader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Store hands out the current dataset. The returned dataset is shared and
// must be treated as read-only.
type Store interface {
	Dataset(ctx context.Context) (*model.Dataset, error)

	// Info describes the epoch currently served. Zero until the first load.
	Info() Info
}

// Info describes one cache epoch.
type Info struct {
	Epoch      string    `json:"epoch"`
	LoadedAt   time.Time `json:"loaded_at"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
	Matches    int       `json:"matches"`
	Deliveries int       `json:"deliveries"`
	Loads      int64     `json:"loads"`
}

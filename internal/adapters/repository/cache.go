package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/okian/iplstats/internal/domain/model"
	"github.com/okian/iplstats/pkg/logger"
	"github.com/okian/iplstats/pkg/metrics"
)

// epoch is one successful load. It is never modified after publication.
type epoch struct {
	id       string
	loadedAt time.Time
	dataset  *model.Dataset
}

// CachedStore serves the dataset from memory and reloads it lazily, on the
// first read after the TTL has passed. Concurrent reloads are collapsed into
// one. A failed reload keeps the previous epoch in service.
type CachedStore struct {
	loader Loader
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger

	current atomic.Pointer[epoch]
	loads   atomic.Int64
	group   singleflight.Group

	// mu serializes publication so an older load never replaces a newer one.
	mu sync.Mutex
}

// NewCachedStore wraps loader. Nothing is read until the first Dataset call
// or an explicit Refresh.
func NewCachedStore(loader Loader, opts ...CacheOption) *CachedStore {
	c := &CachedStore{
		loader: loader,
		ttl:    time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("cache")
	}
	return c
}

// Dataset returns the current epoch's dataset, loading it first when there
// is none or it has expired.
func (c *CachedStore) Dataset(ctx context.Context) (*model.Dataset, error) {
	if e := c.current.Load(); e != nil && !c.expired(e) {
		metrics.RecordCacheHit()
		return e.dataset, nil
	}
	metrics.RecordCacheMiss()

	e, err := c.fill(ctx, false)
	if err != nil {
		if prev := c.current.Load(); prev != nil {
			c.logger.Error(ctx, "reload failed, serving previous epoch",
				logger.String("epoch", prev.id),
				logger.Error(err))
			return prev.dataset, nil
		}
		return nil, err
	}
	return e.dataset, nil
}

// Refresh forces a load regardless of the TTL.
func (c *CachedStore) Refresh(ctx context.Context) error {
	_, err := c.fill(ctx, true)
	return err
}

// Info describes the epoch being served.
func (c *CachedStore) Info() Info {
	e := c.current.Load()
	if e == nil {
		return Info{Loads: c.loads.Load()}
	}
	info := Info{
		Epoch:      e.id,
		LoadedAt:   e.loadedAt,
		Matches:    len(e.dataset.Matches),
		Deliveries: len(e.dataset.Deliveries),
		Loads:      c.loads.Load(),
	}
	if c.ttl > 0 {
		info.ExpiresAt = e.loadedAt.Add(c.ttl)
	}
	return info
}

func (c *CachedStore) expired(e *epoch) bool {
	return c.ttl > 0 && !c.now().Before(e.loadedAt.Add(c.ttl))
}

// fill runs one load for all concurrent callers. Unless forced, a caller
// that lost the race to a load that already finished reuses its epoch.
func (c *CachedStore) fill(ctx context.Context, force bool) (*epoch, error) {
	v, err, shared := c.group.Do("dataset", func() (any, error) {
		if e := c.current.Load(); !force && e != nil && !c.expired(e) {
			return e, nil
		}
		// joined callers must not inherit the first caller's cancellation
		return c.load(context.WithoutCancel(ctx))
	})
	if shared {
		c.logger.Debug(ctx, "joined in-flight dataset load")
	}
	if err != nil {
		return nil, err
	}
	return v.(*epoch), nil
}

func (c *CachedStore) load(ctx context.Context) (*epoch, error) {
	start := time.Now()
	ds, err := c.loader.Load(ctx)
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordDatasetLoad("error", ms)
		return nil, err
	}
	metrics.RecordDatasetLoad("success", ms)

	e := &epoch{id: uuid.NewString(), loadedAt: c.now(), dataset: ds}

	c.mu.Lock()
	if prev := c.current.Load(); prev == nil || !e.loadedAt.Before(prev.loadedAt) {
		c.current.Store(e)
	}
	c.mu.Unlock()

	c.loads.Add(1)
	metrics.UpdateDatasetLastLoad(e.loadedAt.Unix())
	c.logger.Info(ctx, "dataset loaded",
		logger.String("epoch", e.id),
		logger.Int("matches", len(ds.Matches)),
		logger.Int("deliveries", len(ds.Deliveries)),
		logger.Duration("took", time.Since(start)))
	return e, nil
}

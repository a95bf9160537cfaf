package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// CachedCatalog keeps an in-memory snapshot of the catalog in front of a
// Source. The snapshot is refreshed lazily when older than the TTL; if a
// refresh fails the stale snapshot keeps serving, since the catalog is
// static enough that stale data beats an outage.
type CachedCatalog struct {
	source      Source
	ttl         time.Duration
	concurrency int
	logger      zerolog.Logger

	mu       sync.RWMutex
	snapshot []stores.StoreRecord
	loadedAt time.Time
}

// NewCachedCatalog creates a cache over source. concurrency bounds the
// per-chain warmup fan-out.
func NewCachedCatalog(source Source, ttl time.Duration, concurrency int, logger zerolog.Logger) *CachedCatalog {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CachedCatalog{
		source:      source,
		ttl:         ttl,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Warmup loads the catalog chain by chain and installs the merged snapshot.
func (c *CachedCatalog) Warmup(ctx context.Context) error {
	start := time.Now()

	chains, err := c.source.Chains(ctx)
	if err != nil {
		cacheLoadErrors.Inc()
		return err
	}
	results := make([][]stores.StoreRecord, len(chains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, chain := range chains {
		i, chain := i, chain
		g.Go(func() error {
			records, err := c.source.ListStores(gctx, chain)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		cacheLoadErrors.Inc()
		return err
	}

	// Non-nil even when empty, so an empty catalog still counts as loaded.
	merged := make([]stores.StoreRecord, 0)
	for _, records := range results {
		merged = append(merged, records...)
	}

	c.install(merged)
	cacheLoadDuration.Observe(time.Since(start).Seconds())
	c.logger.Info().
		Int("stores", len(merged)).
		Dur("took", time.Since(start)).
		Msg("catalog snapshot loaded")
	return nil
}

// FindNearby serves the lookup from the cached snapshot, refreshing it
// first when expired.
func (c *CachedCatalog) FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]stores.StoreRecord, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	snapshot, loadedAt := c.current()
	if snapshot == nil {
		if err := c.Warmup(ctx); err != nil {
			return nil, err
		}
		snapshot, _ = c.current()
	} else if time.Since(loadedAt) > c.ttl {
		if err := c.Warmup(ctx); err != nil {
			cacheStaleServes.Inc()
			c.logger.Warn().Err(err).Msg("catalog refresh failed, serving stale snapshot")
		} else {
			snapshot, _ = c.current()
		}
	}

	return rankAndRound(snapshot, origin, radiusKm), nil
}

func (c *CachedCatalog) install(records []stores.StoreRecord) {
	c.mu.Lock()
	c.snapshot = records
	c.loadedAt = time.Now()
	c.mu.Unlock()
	cachedStores.Set(float64(len(records)))
}

func (c *CachedCatalog) current() ([]stores.StoreRecord, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.loadedAt
}

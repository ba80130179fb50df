package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/nestcast/internal/cache"
	"github.com/rgehrsitz/nestcast/internal/domain"
)

// CachedEngine memoizes Run results keyed by a hash of the plan and the
// engine settings. It is meant for interactive use where the same parameters
// come back often (undoing a slider move, for example).
type CachedEngine struct {
	*Engine
	results *cache.LRUCache[*domain.PlanResult]
}

// NewCachedEngine wraps engine with a cache of at most size results.
func NewCachedEngine(engine *Engine, size int, ttl time.Duration) *CachedEngine {
	return &CachedEngine{
		Engine:  engine,
		results: cache.NewLRUCache[*domain.PlanResult](size, ttl),
	}
}

func (c *CachedEngine) key(params *domain.PlanParameters) (string, error) {
	fp, err := params.Fingerprint()
	if err != nil {
		return "", err
	}
	s := c.Settings()
	return fmt.Sprintf("%s/%d/%d/%d/%d/%d", fp, s.Iterations, s.Bins, s.Seed, s.Workers, c.baseYear()), nil
}

// Run returns a cached result when one exists for params, otherwise computes
// and stores it. Callers must not modify the returned result.
func (c *CachedEngine) Run(ctx context.Context, params *domain.PlanParameters) (*domain.PlanResult, error) {
	key, err := c.key(params)
	if err != nil {
		return nil, err
	}
	if res, ok := c.results.Get(key); ok {
		c.logger().Debugf("cache hit for plan %s", key[:12])
		return res, nil
	}
	res, err := c.Engine.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	c.results.Set(key, res)
	return res, nil
}

// CacheStats reports hit and miss counts.
func (c *CachedEngine) CacheStats() cache.Stats {
	return c.results.Stats()
}

// Invalidate drops every cached result.
func (c *CachedEngine) Invalidate() {
	c.results.Purge()
}

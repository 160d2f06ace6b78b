package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/okian/playersim/internal/domain/engine"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const tierCohort = "cohort"

// cohortCache holds prepared cohorts by key and coalesces concurrent
// builds of the same key. Only cacheable cohorts are stored.
type cohortCache struct {
	lru   *expirable.LRU[model.CohortKey, *engine.Prepared]
	group singleflight.Group
}

func newCohortCache(size int, ttl time.Duration) *cohortCache {
	return &cohortCache{lru: expirable.NewLRU[model.CohortKey, *engine.Prepared](size, nil, ttl)}
}

type buildFunc func(ctx context.Context) (*engine.Prepared, error)

// get returns the cached cohort or builds it. hit reports a cache hit.
// The build outlives a cancelled caller so other waiters still get it.
func (c *cohortCache) get(ctx context.Context, key model.CohortKey, build buildFunc) (p *engine.Prepared, hit bool, err error) {
	if p, ok := c.lru.Get(key); ok {
		metrics.RecordCacheHit(tierCohort)
		return p, true, nil
	}
	metrics.RecordCacheMiss(tierCohort)

	ch := c.group.DoChan(key.String(), func() (any, error) {
		p, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if p.Cacheable() {
			c.lru.Add(key, p)
			metrics.UpdateCachedCohorts(c.lru.Len())
		}
		return p, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		prepared, ok := res.Val.(*engine.Prepared)
		if !ok {
			return nil, false, fmt.Errorf("cohort %s: unexpected build result %T", key, res.Val)
		}
		return prepared, false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (c *cohortCache) contains(key model.CohortKey) bool {
	return c.lru.Contains(key)
}

func (c *cohortCache) len() int {
	return c.lru.Len()
}

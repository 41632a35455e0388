package lexicon

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a learned-lexicon snapshot is served before
// the underlying provider is asked again.
const DefaultCacheTTL = 5 * time.Minute

// cachedProvider snapshots another Provider. The version only moves when a
// refresh produces a different weight set, so the scorer's phrase index is
// rebuilt exactly as often as the learned lexicon actually changes.
type cachedProvider struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	weights   map[string]float64
	version   uint64
	fetchedAt time.Time
	primed    bool
}

// Cached wraps p with a TTL snapshot cache. A ttl of 0 uses
// DefaultCacheTTL. On refresh failure the previous snapshot is served
// stale; the error only surfaces when no snapshot exists yet.
func Cached(p Provider, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedProvider{inner: p, ttl: ttl, now: time.Now}
}

func (c *cachedProvider) Learned() (map[string]float64, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primed && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.weights, c.version, nil
	}

	weights, _, err := c.inner.Learned()
	if err != nil {
		if c.primed {
			return c.weights, c.version, nil
		}
		return nil, 0, err
	}

	c.fetchedAt = c.now()
	if !c.primed || !sameWeights(c.weights, weights) {
		c.weights = weights
		c.version++
	}
	c.primed = true
	return c.weights, c.version, nil
}

func sameWeights(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

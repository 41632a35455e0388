package lexicon

import (
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	calls   int
	weights map[string]float64
	err     error
}

func (p *countingProvider) Learned() (map[string]float64, uint64, error) {
	p.calls++
	if p.err != nil {
		return nil, 0, p.err
	}
	return p.weights, uint64(p.calls), p.err
}

func newTestClock(start time.Time) (func() time.Time, func(time.Duration)) {
	current := start
	return func() time.Time { return current },
		func(d time.Duration) { current = current.Add(d) }
}

func TestCachedServesSnapshotWithinTTL(t *testing.T) {
	inner := &countingProvider{weights: map[string]float64{"bứt tốc": 0.5}}
	c := Cached(inner, time.Minute).(*cachedProvider)
	now, advance := newTestClock(time.Unix(0, 0))
	c.now = now

	w1, v1, err := c.Learned()
	if err != nil {
		t.Fatal(err)
	}
	if v1 != 1 || w1["bứt tốc"] != 0.5 {
		t.Fatalf("first fetch: weights=%v version=%d", w1, v1)
	}

	advance(30 * time.Second)
	_, v2, _ := c.Learned()
	if inner.calls != 1 {
		t.Errorf("inner fetched %d times within TTL, want 1", inner.calls)
	}
	if v2 != v1 {
		t.Errorf("version moved without a refresh: %d -> %d", v1, v2)
	}
}

func TestCachedVersionStableWhenWeightsUnchanged(t *testing.T) {
	inner := &countingProvider{weights: map[string]float64{"bứt tốc": 0.5}}
	c := Cached(inner, time.Minute).(*cachedProvider)
	now, advance := newTestClock(time.Unix(0, 0))
	c.now = now

	_, v1, _ := c.Learned()
	advance(2 * time.Minute)
	_, v2, _ := c.Learned()
	if inner.calls != 2 {
		t.Fatalf("expected a refresh after TTL, got %d calls", inner.calls)
	}
	if v2 != v1 {
		t.Errorf("identical weights must not bump the version: %d -> %d", v1, v2)
	}
}

func TestCachedVersionBumpsWhenWeightsChange(t *testing.T) {
	inner := &countingProvider{weights: map[string]float64{"bứt tốc": 0.5}}
	c := Cached(inner, time.Minute).(*cachedProvider)
	now, advance := newTestClock(time.Unix(0, 0))
	c.now = now

	_, v1, _ := c.Learned()
	inner.weights = map[string]float64{"bứt tốc": 0.5, "hụt hơi": -0.4}
	advance(2 * time.Minute)
	w2, v2, _ := c.Learned()
	if v2 == v1 {
		t.Error("changed weights must bump the version")
	}
	if w2["hụt hơi"] != -0.4 {
		t.Errorf("new weights not served: %v", w2)
	}
}

func TestCachedServesStaleOnRefreshError(t *testing.T) {
	inner := &countingProvider{weights: map[string]float64{"bứt tốc": 0.5}}
	c := Cached(inner, time.Minute).(*cachedProvider)
	now, advance := newTestClock(time.Unix(0, 0))
	c.now = now

	_, v1, _ := c.Learned()
	inner.err = errors.New("db closed")
	advance(2 * time.Minute)
	w, v, err := c.Learned()
	if err != nil {
		t.Fatalf("primed cache must serve stale, got error: %v", err)
	}
	if v != v1 || w["bứt tốc"] != 0.5 {
		t.Errorf("stale snapshot mangled: weights=%v version=%d", w, v)
	}
}

func TestCachedErrorBeforeFirstSnapshot(t *testing.T) {
	inner := &countingProvider{err: errors.New("db closed")}
	c := Cached(inner, time.Minute)

	if _, _, err := c.Learned(); err == nil {
		t.Error("expected error when no snapshot exists yet")
	}
}

func TestCachedZeroTTLUsesDefault(t *testing.T) {
	c := Cached(&countingProvider{}, 0).(*cachedProvider)
	if c.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultCacheTTL)
	}
}

package app

import (
	"sync"
	"time"

	"github.com/okian/fantasybroker/pkg/metrics"
)

// overviewCache is a short-TTL cache for aggregated portfolio insights,
// keyed by participant id. Staleness up to the TTL is accepted; entries
// are never invalidated by data changes, only by time.
type overviewCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]overviewEntry

	// now is swappable for tests.
	now func() time.Time
}

type overviewEntry struct {
	insights []PlayerInsight
	expires  time.Time
}

func newOverviewCache(ttl time.Duration) *overviewCache {
	return &overviewCache{
		ttl:     ttl,
		entries: make(map[int64]overviewEntry),
		now:     time.Now,
	}
}

func (c *overviewCache) get(participantID int64) ([]PlayerInsight, bool) {
	c.mu.RLock()
	e, ok := c.entries[participantID]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		metrics.RecordOverviewCacheMiss()
		return nil, false
	}
	metrics.RecordOverviewCacheHit()
	return e.insights, true
}

func (c *overviewCache) put(participantID int64, insights []PlayerInsight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[participantID] = overviewEntry{
		insights: insights,
		expires:  c.now().Add(c.ttl),
	}
}

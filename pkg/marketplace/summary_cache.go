package marketplace

import (
	"sync"
	"time"

	"modmaster-backend/domain"
)

// SummaryCache holds computed price summaries per part id with a TTL.
// It is constructed once per process and injected; invalidation is the
// only strong-consistency knob, reads may be up to one TTL stale.
type SummaryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// now is swappable in tests.
	now func() time.Time
}

type cacheEntry struct {
	summary   domain.PriceSummaryResponse
	expiresAt time.Time
}

func NewSummaryCache(ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *SummaryCache) Get(partID string) (domain.PriceSummaryResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[partID]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return domain.PriceSummaryResponse{}, false
	}
	return entry.summary, true
}

func (c *SummaryCache) Set(partID string, summary domain.PriceSummaryResponse) {
	c.mu.Lock()
	c.entries[partID] = cacheEntry{
		summary:   summary,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func (c *SummaryCache) Delete(partID string) {
	c.mu.Lock()
	delete(c.entries, partID)
	c.mu.Unlock()
}

package cache

import (
	"sync"

	"scriptscan/internal/domain"
)

// ReportCache keeps the most recently used scan reports keyed by content
// digest. Reports cached before the last Invalidate are never returned.
type ReportCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	gen     uint64
}

type cacheEntry struct {
	report domain.Report
	gen    uint64
}

func NewReportCache(maxSize int) *ReportCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &ReportCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *ReportCache) Get(digest string) (domain.Report, bool) {
	c.mu.RLock()
	entry, exists := c.entries[digest]
	currentGen := c.gen
	c.mu.RUnlock()

	if !exists {
		return domain.Report{}, false
	}

	if entry.gen != currentGen {
		c.mu.Lock()
		delete(c.entries, digest)
		c.removeFromOrder(digest)
		c.mu.Unlock()
		return domain.Report{}, false
	}

	c.mu.Lock()
	if _, ok := c.entries[digest]; ok {
		c.moveToEnd(digest)
	}
	c.mu.Unlock()

	return entry.report, true
}

func (c *ReportCache) Put(report domain.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := report.Digest
	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{report: report, gen: c.gen}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{report: report, gen: c.gen}
	c.order = append(c.order, key)
}

func (c *ReportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.gen++
}

func (c *ReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ReportCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ReportCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ReportCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

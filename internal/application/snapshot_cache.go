package application

import (
	"sync"
	"time"

	"github.com/example/staybook/internal/calendar"
)

// snapshotCache stores recently fetched reservation snapshots per unit so
// repeated calendar renders skip the store while nothing has changed. Writes
// to a unit invalidate its entry immediately; the TTL bounds staleness from
// out-of-band changes.
type snapshotCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]snapshotEntry
}

type snapshotEntry struct {
	intervals []calendar.ReservationInterval
	expiresAt time.Time
}

func newSnapshotCache(ttl time.Duration, maxEntries int, now func() time.Time) *snapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &snapshotCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]snapshotEntry),
	}
}

func (c *snapshotCache) Get(unitID string) ([]calendar.ReservationInterval, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[unitID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, unitID)
		c.mu.Unlock()
		return nil, false
	}
	return cloneIntervals(entry.intervals), true
}

func (c *snapshotCache) Store(unitID string, intervals []calendar.ReservationInterval) {
	if c == nil {
		return
	}
	cloned := cloneIntervals(intervals)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[unitID] = snapshotEntry{intervals: cloned, expiresAt: expiry}
}

// Invalidate drops one unit's entry; an empty ID drops everything.
func (c *snapshotCache) Invalidate(unitID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if unitID == "" {
		c.entries = make(map[string]snapshotEntry)
	} else {
		delete(c.entries, unitID)
	}
	c.mu.Unlock()
}

func (c *snapshotCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *snapshotCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneIntervals(intervals []calendar.ReservationInterval) []calendar.ReservationInterval {
	if len(intervals) == 0 {
		return nil
	}
	out := make([]calendar.ReservationInterval, len(intervals))
	copy(out, intervals)
	return out
}

package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/simkit/sim-cli/internal/driver"
	"github.com/simkit/sim-cli/internal/model"
)

// mcpCacheKey identifies one snapshot scope.
type mcpCacheKey struct {
	UDID   string
	Nested bool
}

// mcpCacheEntry holds a cached snapshot with its timestamp.
type mcpCacheEntry struct {
	snap      *model.Snapshot
	timestamp time.Time
}

// mcpSnapshotCache is a TTL cache for UI snapshots. It serves the
// read-only serve tools (describe, find), where an agent often issues
// several lookups against the same screen; action tools bypass it and
// invalidate their target after dispatching, so gesture cycles always see
// live state.
type mcpSnapshotCache struct {
	mu      sync.Mutex
	entries map[mcpCacheKey]mcpCacheEntry
	ttl     time.Duration
}

// newMCPSnapshotCache creates a new cache. A ttl of 0 disables caching.
func newMCPSnapshotCache(ttl time.Duration) *mcpSnapshotCache {
	return &mcpSnapshotCache{
		entries: make(map[mcpCacheKey]mcpCacheEntry),
		ttl:     ttl,
	}
}

// capture returns a cached snapshot if within TTL, otherwise captures fresh.
func (c *mcpSnapshotCache) capture(ctx context.Context, intro driver.Introspector, udid string, nested bool) (*model.Snapshot, error) {
	if c.ttl == 0 {
		return intro.Capture(ctx, udid, nested)
	}

	key := mcpCacheKey{UDID: udid, Nested: nested}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && time.Since(entry.timestamp) < c.ttl {
		snap := entry.snap
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	snap, err := intro.Capture(ctx, udid, nested)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = mcpCacheEntry{snap: snap, timestamp: time.Now()}
	c.mu.Unlock()

	return snap, nil
}

// invalidateTarget removes both tree forms for the given device.
func (c *mcpSnapshotCache) invalidateTarget(udid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.UDID == udid {
			delete(c.entries, k)
		}
	}
}

// Package cache keeps recently synced stock snapshots in memory.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
)

const keyPrefix = "snapshot:"

// SnapshotCache implements port.SnapshotCache with an expiring in-memory map
type SnapshotCache struct {
	store *gocache.Cache
}

// NewSnapshotCache creates a cache whose entries expire after ttl.
// A non-positive ttl keeps entries until they are replaced.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	expiration := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &SnapshotCache{store: gocache.New(expiration, cleanup)}
}

// Get returns the cached snapshot of a company
func (c *SnapshotCache) Get(company string) (*entity.StockSnapshot, bool) {
	v, ok := c.store.Get(keyPrefix + company)
	if !ok {
		return nil, false
	}
	snapshot, ok := v.(*entity.StockSnapshot)
	return snapshot, ok
}

// Set replaces the cached snapshot of a company
func (c *SnapshotCache) Set(company string, snapshot *entity.StockSnapshot) {
	c.store.SetDefault(keyPrefix+company, snapshot)
}

// Invalidate drops the cached snapshot of a company
func (c *SnapshotCache) Invalidate(company string) {
	c.store.Delete(keyPrefix + company)
}

// Verify interface compliance
var _ port.SnapshotCache = (*SnapshotCache)(nil)

// Package statuscache holds the per-user billing status cache. Multiple
// components consult capabilities during a single request burst; the
// cache guarantees at most one in-flight fetch per user and a short
// validity window so the billing tables are not hammered.
package statuscache

import (
	"context"
	"sync"
	"time"

	"shiftscore_backend/internal/entitlements"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads the authoritative billing status for a user.
type Fetcher func(ctx context.Context, userID string) (*entitlements.BillingStatus, error)

type entry struct {
	status    *entitlements.BillingStatus
	fetchedAt time.Time
}

// Cache is a TTL cache keyed by user ID. Concurrent consumers of a cold
// key await the same fetch instead of issuing duplicates. Failed fetches
// are not cached; callers resolve them fail-closed.
type Cache struct {
	fetch Fetcher
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	group singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

func New(fetch Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetch:   fetch,
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached status for userID, fetching on miss or expiry.
// If ctx is cancelled while a fetch is in flight, only this waiter gives
// up; the shared fetch completes and populates the cache for others.
func (c *Cache) Get(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()

	if ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.status, nil
	}

	ch := c.group.DoChan(userID, func() (interface{}, error) {
		// Detached from the caller's ctx: the fetch outlives any single
		// waiter so the entry stays usable for other consumers.
		status, err := c.fetch(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[userID] = entry{status: status, fetchedAt: c.now()}
		c.mu.Unlock()
		return status, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entitlements.BillingStatus), nil
	}
}

// Invalidate drops the entry for userID, forcing a refetch on next Get.
// Called after billing actions (checkout completion, cancellation).
func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// Len reports the number of live entries (diagnostics).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

package statuscache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shiftscore_backend/internal/entitlements"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeStatus() *entitlements.BillingStatus {
	return &entitlements.BillingStatus{Tier: entitlements.TierFree}
}

func TestCache_ServesFromCacheWithinTTL(t *testing.T) {
	t.Parallel()

	var calls int32
	cache := New(func(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
		atomic.AddInt32(&calls, 1)
		return freeStatus(), nil
	}, time.Minute)

	_, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, cache.Len())
}

func TestCache_RefetchesAfterTTL(t *testing.T) {
	t.Parallel()

	var calls int32
	cache := New(func(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
		atomic.AddInt32(&calls, 1)
		return freeStatus(), nil
	}, time.Minute)

	current := time.Now()
	var mu sync.Mutex
	cache.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	_, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	mu.Lock()
	current = current.Add(2 * time.Minute)
	mu.Unlock()

	_, err = cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	t.Parallel()

	var calls int32
	release := make(chan struct{})
	cache := New(func(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return freeStatus(), nil
	}, time.Minute)

	const waiters = 8
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := cache.Get(context.Background(), "u1")
			assert.NoError(t, err)
			assert.NotNil(t, status)
		}()
	}

	// Give the waiters time to pile onto the same key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "all waiters share a single fetch")
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	var calls int32
	cache := New(func(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("db down")
		}
		return freeStatus(), nil
	}, time.Minute)

	_, err := cache.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	status, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, status)
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	var calls int32
	cache := New(func(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
		atomic.AddInt32(&calls, 1)
		return freeStatus(), nil
	}, time.Minute)

	_, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	cache.Invalidate("u1")
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_CancelledWaiterDoesNotKillTheFetch(t *testing.T) {
	t.Parallel()

	fetched := make(chan struct{})
	release := make(chan struct{})
	cache := New(func(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
		<-release
		close(fetched)
		return freeStatus(), nil
	}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, "u1")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled, "the cancelled waiter gives up immediately")

	// The shared fetch still completes and populates the cache.
	close(release)
	select {
	case <-fetched:
	case <-time.After(time.Second):
		t.Fatal("fetch never completed after waiter cancellation")
	}

	assert.Eventually(t, func() bool { return cache.Len() == 1 }, time.Second, 10*time.Millisecond)
}

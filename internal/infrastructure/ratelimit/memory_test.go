package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *manualClock {
	return &manualClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestMemoryLimiter_HundredThenRejectThenRollover(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(100, time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.Truef(t, ok, "request %d rejected", i+1)
		clock.Advance(100 * time.Millisecond)
	}

	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok, "101st request within the window must be rejected")

	other, _ := l.Allow(ctx, "10.0.0.2")
	assert.True(t, other, "limits are per address")

	clock.Advance(time.Minute)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok, "new window must allow again")
}

func TestMemoryLimiter_WindowBoundaryIsInclusive(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(1, time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	require.True(t, ok)

	clock.Advance(time.Minute)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok, "window resets only once now-start exceeds the window")

	clock.Advance(time.Nanosecond)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryLimiter_ConcurrentCallersNeverExceedMax(t *testing.T) {
	l := NewMemoryLimiter(100, time.Hour)
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if ok, _ := l.Allow(ctx, "burst"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowed.Load())
}

func TestMemoryLimiter_SweepEvictsExpiredWindows(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(10, time.Minute, WithClock(clock.Now), WithGrace(30*time.Second))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("old-%d", i))
	}
	clock.Advance(time.Minute)
	_, _ = l.Allow(ctx, "fresh")

	assert.Equal(t, 0, l.Sweep(), "windows inside the grace period are kept")

	clock.Advance(31 * time.Second)
	assert.Equal(t, 5, l.Sweep())
	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_MaxKeysBoundsMap(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(10, time.Minute, WithClock(clock.Now), WithMaxKeys(3))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("client-%d", i))
		clock.Advance(time.Second)
	}
	assert.LessOrEqual(t, l.Len(), 3)

	ok, _ := l.Allow(ctx, "client-9")
	assert.True(t, ok)
}

func TestMemoryLimiter_FullMapKeepsLiveWindows(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(2, time.Minute, WithClock(clock.Now), WithMaxKeys(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _ := l.Allow(ctx, "heavy")
		require.True(t, ok)
	}
	_, _ = l.Allow(ctx, "other")
	require.Equal(t, 2, l.Len())

	// Key churn while both windows are live must not reset "heavy".
	for i := 0; i < 50; i++ {
		ok, _ := l.Allow(ctx, fmt.Sprintf("churn-%d", i))
		assert.True(t, ok, "untracked keys are allowed")
	}
	assert.Equal(t, 2, l.Len())

	ok, _ := l.Allow(ctx, "heavy")
	assert.False(t, ok, "a live window survives a full map")

	// Once the windows end they make room for new keys.
	clock.Advance(time.Minute + time.Second)
	ok, _ = l.Allow(ctx, "newcomer")
	assert.True(t, ok)
	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_JanitorStopsWithContext(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(1, time.Millisecond, WithClock(clock.Now), WithGrace(0), WithSweepEvery(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _ = l.Allow(ctx, "k")
	clock.Advance(time.Second)
	l.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)
}

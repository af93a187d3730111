// Package ratelimit holds the in-process fixed-window limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/forumhub/forum-api/internal/core/ports"
)

const (
	DefaultMax        = 100
	DefaultWindow     = time.Minute
	DefaultGrace      = time.Minute
	DefaultMaxKeys    = 100_000
	defaultSweepEvery = time.Minute
)

// clientWindow is the request count of one key since start. evicted marks a
// window the sweeper removed from the map; holders of a stale pointer retry.
type clientWindow struct {
	mu      sync.Mutex
	count   int
	start   time.Time
	evicted bool
}

// MemoryLimiter counts requests per key in fixed windows. Each key has its
// own lock, so concurrent bursts from one client cannot lose updates.
// Windows idle for longer than window+grace are swept. When the map reaches
// maxKeys, windows that have already ended are dropped inline; live windows
// are never dropped. If every tracked window is live, a request from a new
// key is allowed without being counted, a false negative bounded by the
// time until the oldest window ends.
type MemoryLimiter struct {
	mu         sync.RWMutex
	windows    map[string]*clientWindow
	max        int
	window     time.Duration
	grace      time.Duration
	maxKeys    int
	sweepEvery time.Duration
	now        func() time.Time
	// fullUntil is the earliest time a tracked window can end while the map
	// is at maxKeys. Before it, new keys skip the scan.
	fullUntil time.Time
}

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

type Option func(*MemoryLimiter)

func WithGrace(d time.Duration) Option {
	return func(l *MemoryLimiter) { l.grace = d }
}

func WithMaxKeys(n int) Option {
	return func(l *MemoryLimiter) { l.maxKeys = n }
}

func WithSweepEvery(d time.Duration) Option {
	return func(l *MemoryLimiter) { l.sweepEvery = d }
}

func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) { l.now = now }
}

// NewMemoryLimiter allows max requests per window for each key. Zero values
// fall back to 100 requests per minute.
func NewMemoryLimiter(max int, window time.Duration, opts ...Option) *MemoryLimiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &MemoryLimiter{
		windows:    make(map[string]*clientWindow),
		max:        max,
		window:     window,
		grace:      DefaultGrace,
		maxKeys:    DefaultMaxKeys,
		sweepEvery: defaultSweepEvery,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Window returns the configured window length.
func (l *MemoryLimiter) Window() time.Duration { return l.window }

// Allow counts one request for key and reports whether it is within the
// ceiling. It never fails.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	for {
		w := l.lookup(key)
		if w == nil {
			return true, nil
		}

		w.mu.Lock()
		if w.evicted {
			w.mu.Unlock()
			continue
		}
		now := l.now()
		if now.Sub(w.start) > l.window {
			w.count = 0
			w.start = now
		}
		w.count++
		allowed := w.count <= l.max
		w.mu.Unlock()

		return allowed, nil
	}
}

// lookup returns the window for key, creating it when there is room. It
// returns nil when the map is full of live windows.
func (l *MemoryLimiter) lookup(key string) *clientWindow {
	l.mu.RLock()
	w, ok := l.windows[key]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok := l.windows[key]; ok {
		return w
	}

	now := l.now()
	if l.maxKeys > 0 && len(l.windows) >= l.maxKeys {
		if !now.After(l.fullUntil) {
			return nil
		}
		removed, oldest := l.expireLocked(now, l.window)
		if removed == 0 {
			l.fullUntil = oldest.Add(l.window)
			return nil
		}
	}
	w = &clientWindow{start: now}
	l.windows[key] = w
	return w
}

// Sweep removes windows that expired more than grace ago and returns how
// many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed, _ := l.expireLocked(l.now(), l.window+l.grace)
	return removed
}

// expireLocked removes windows that started more than ttl before now. It also
// returns the earliest start among the windows it kept.
func (l *MemoryLimiter) expireLocked(now time.Time, ttl time.Duration) (int, time.Time) {
	var (
		removed int
		oldest  time.Time
	)
	for key, w := range l.windows {
		w.mu.Lock()
		if now.Sub(w.start) > ttl {
			w.evicted = true
			delete(l.windows, key)
			removed++
		} else if oldest.IsZero() || w.start.Before(oldest) {
			oldest = w.start
		}
		w.mu.Unlock()
	}
	return removed, oldest
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.windows)
}

// StartJanitor sweeps expired windows periodically until ctx is cancelled.
func (l *MemoryLimiter) StartJanitor(ctx context.Context) {
	if l.sweepEvery <= 0 {
		return
	}
	t := time.NewTicker(l.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}

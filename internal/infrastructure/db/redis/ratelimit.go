package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// windowScript increments the counter of the current window and starts the
// window on the first hit. The PTTL check also repairs a counter that lost
// its expiry.
var windowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// WindowLimiter is a fixed-window counter kept in Redis, so the ceiling holds
// across replicas. Keys expire with their window, which bounds memory.
// Key format: ratelimit:<client address>
type WindowLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewWindowLimiter allows max requests per window for each key.
func NewWindowLimiter(client *redis.Client, max int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{client: client, max: int64(max), window: window}
}

// Allow increments the key's counter atomically and reports whether it is
// still within the ceiling.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := windowScript.Run(ctx, l.client, []string{keyPrefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return n <= l.max, nil
}

func (l *WindowLimiter) Window() time.Duration { return l.window }

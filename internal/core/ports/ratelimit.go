package ports

import "context"

// RateLimiter counts requests per client key in fixed windows.
// Allow reports whether the current request is within the ceiling.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/core/ports"
	redisstore "github.com/forumhub/forum-api/internal/infrastructure/db/redis"
	"github.com/forumhub/forum-api/internal/infrastructure/http/handlers"
	"github.com/forumhub/forum-api/internal/infrastructure/ratelimit"
	"github.com/forumhub/forum-api/internal/pkg/config"
)

type limiter struct {
	ports.RateLimiter
	window time.Duration
	probe  handlers.Pinger // nil for the in-process backend
	close  func() error
}

// openLimiter builds the configured backend. The memory janitor stops with
// ctx.
func openLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*limiter, error) {
	rl := cfg.RateLimit

	if rl.Backend == config.LimiterRedis {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limiter backed by redis")
		wl := redisstore.NewWindowLimiter(client, rl.Max, rl.Window)
		return &limiter{
			RateLimiter: wl,
			window:      wl.Window(),
			probe:       redisstore.Pinger{Client: client},
			close:       client.Close,
		}, nil
	}

	ml := ratelimit.NewMemoryLimiter(rl.Max, rl.Window,
		ratelimit.WithGrace(rl.Grace),
		ratelimit.WithMaxKeys(rl.MaxKeys),
	)
	ml.StartJanitor(ctx)
	return &limiter{
		RateLimiter: ml,
		window:      ml.Window(),
		close:       func() error { return nil },
	}, nil
}

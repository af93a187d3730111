// Command forumd serves the forum API: cookie sessions, per-address rate
// limiting and likes on users, forums, topics and comments.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/forumhub/forum-api/internal/api"
	"github.com/forumhub/forum-api/internal/api/handler"
	"github.com/forumhub/forum-api/internal/core/service"
	"github.com/forumhub/forum-api/internal/infrastructure/http/handlers"
	"github.com/forumhub/forum-api/internal/infrastructure/queue"
	"github.com/forumhub/forum-api/internal/pkg/config"
	"github.com/forumhub/forum-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "forumd",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("forumd exited")
	}
	log.Info().Msg("forumd stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	proxies, err := cfg.ProxyRanges()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, logger.Component("storage"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing storage")
		}
	}()

	limiter, err := openLimiter(ctx, cfg, logger.Component("ratelimit"))
	if err != nil {
		return err
	}
	defer func() { _ = limiter.close() }()

	auditLog := logger.Component("audit")
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditService(store.audit, auditLog), auditLog)
	dispatcher.Start(ctx)

	tokens := service.NewTokenService(cfg.Auth.Issuer, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	probes := []handlers.Pinger{store.probe}
	if limiter.probe != nil {
		probes = append(probes, limiter.probe)
	}

	e := api.NewRouter(api.Dependencies{
		Auth:           service.NewAuthService(store.users, tokens, dispatcher, logger.Component("auth")),
		Content:        service.NewContentService(store.contentRepos()),
		Engagements:    service.NewEngagementService(store.engagementRepos(), dispatcher, logger.Component("engagement")),
		Tokens:         tokens,
		Limiter:        limiter,
		Audit:          dispatcher,
		Probes:         probes,
		Log:            logger.Component("http"),
		Cookies:        handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		Production:     !cfg.IsDevelopment(),
		RateWindow:     limiter.window,
		LoginPerMinute: cfg.Auth.LoginRateLimit,
		TrustedProxies: proxies,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.StorageDriver).
			Str("rate_limit_backend", cfg.RateLimit.Backend).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if derr := dispatcher.Stop(shutdownCtx); derr != nil {
			log.Warn().Err(derr).Msg("audit queue not fully drained")
		}
		return err
	})

	return g.Wait()
}

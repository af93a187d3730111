package api

import (
	"net"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/api/handler"
	"github.com/forumhub/forum-api/internal/api/middleware"
	"github.com/forumhub/forum-api/internal/core/ports"
	"github.com/forumhub/forum-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs, already constructed.
type Dependencies struct {
	Auth        ports.AuthService
	Content     ports.ContentService
	Engagements ports.EngagementService
	Tokens      ports.TokenService
	Limiter     ports.RateLimiter
	Audit       ports.AuditSink
	Probes      []handlers.Pinger
	Log         zerolog.Logger

	Cookies        handler.CookieConfig
	Production     bool
	RateWindow     time.Duration
	LoginPerMinute int

	// TrustedProxies are the ranges whose X-Forwarded-For is honoured when
	// resolving the client address. Empty means the socket address is used.
	TrustedProxies []*net.IPNet

	// Registerer and Gatherer back the HTTP metrics and /metrics. When nil a
	// private registry is used, so tests can build several routers.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Middleware order matters: the rate limiter runs before authentication so a
// rejected client costs no token verification, and RequireAuth is attached
// per route after Authenticate has run globally.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.IPExtractor = ipExtractor(deps.TrustedProxies)

	reg, gath := deps.Registerer, deps.Gatherer
	if reg == nil || gath == nil {
		r := prometheus.NewRegistry()
		reg, gath = r, r
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.SecureHeaders(deps.Production))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "forum",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.RateLimit(deps.Limiter, deps.RateWindow, deps.Log))
	e.Use(middleware.Authenticate(deps.Tokens, deps.Cookies.Name, deps.Audit, deps.Log))

	requireAuth := middleware.RequireAuth()
	throttle := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if deps.LoginPerMinute > 0 {
		throttle = middleware.Throttle(deps.LoginPerMinute)
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookies)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login, throttle)
	auth.POST("/refresh", authHandler.Refresh, throttle)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Content ---
	contentHandler := handler.NewContentHandler(deps.Content)
	v1 := e.Group("/v1")
	v1.GET("/users/:id", contentHandler.GetUser)
	v1.POST("/forums", contentHandler.CreateForum, requireAuth)
	v1.GET("/forums/:id", contentHandler.GetForum)
	v1.POST("/forums/:id/topics", contentHandler.CreateTopic, requireAuth)
	v1.GET("/topics/:id", contentHandler.GetTopic)
	v1.POST("/topics/:id/comments", contentHandler.CreateComment, requireAuth)
	v1.GET("/comments/:id", contentHandler.GetComment)

	// --- Engagements ---
	engagementHandler := handler.NewEngagementHandler(deps.Engagements)
	v1.GET("/engagements/:kind/:id", engagementHandler.Status)
	v1.POST("/engagements/:kind/:id", engagementHandler.Like, requireAuth)
	v1.DELETE("/engagements/:kind/:id", engagementHandler.Unlike, requireAuth)
	v1.POST("/engagements/:kind/:id/reconcile", engagementHandler.Reconcile, requireAuth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Probes...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gath}))

	return e
}

// ipExtractor resolves the client address the rate limiter keys on. Without
// trusted proxies a forwarded header is ignored, since any client could set it.
func ipExtractor(proxies []*net.IPNet) echo.IPExtractor {
	if len(proxies) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range proxies {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// Package main is the entrypoint for the hostlink API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/hostlink/hostlink/internal/analytics"
	"github.com/hostlink/hostlink/internal/cache"
	"github.com/hostlink/hostlink/internal/config"
	"github.com/hostlink/hostlink/internal/handler"
	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/middleware"
	"github.com/hostlink/hostlink/internal/repository"
	"github.com/hostlink/hostlink/internal/server"
	"github.com/hostlink/hostlink/internal/service"
)

func main() {
	ctx := context.Background()

	// Load .env in development; a missing file is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	shortURLService := service.NewShortURLService(repo, cacheClient, cfg.DefaultDomain, logger, metricsRecorder)
	domainService := service.NewDomainService(repo, metricsRecorder)
	clickRecorder := analytics.NewRecorder(repo, logger, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	shortURLHandler := handler.NewShortURLHandler(shortURLService, logger)
	redirectHandler := handler.NewRedirectHandler(shortURLService, clickRecorder, logger)
	domainHandler := handler.NewDomainHandler(domainService, logger)
	caddyHandler := handler.NewCaddyHandler(domainService, logger, metricsRecorder)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		shortURL: shortURLHandler,
		redirect: redirectHandler,
		domain:   domainHandler,
		caddy:    caddyHandler,
		metrics:  metricsHandler,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Drain in-flight click writes before the process exits
	srv.OnShutdown("click recorder", clickRecorder.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"default_domain", cfg.DefaultDomain,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	shortURL *handler.ShortURLHandler
	redirect *handler.RedirectHandler
	domain   *handler.DomainHandler
	caddy    *handler.CaddyHandler
	metrics  *handler.MetricsHandler
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	cfg := deps.cfg
	logger := deps.logger

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.DomainContext)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Info)

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:          logger,
		Cache:           deps.cache,
		RedirectEnabled: cfg.RateLimitRedirectEnabled,
		RedirectRPS:     cfg.RateLimitRedirectRPS,
		RedirectBurst:   cfg.RateLimitRedirectBurst,
	}

	// Public API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/shorten", deps.shortURL.Create)
		r.Get("/stats/{shortCode}", deps.shortURL.Stats)

		r.Route("/urls", func(r chi.Router) {
			r.Get("/", deps.shortURL.List)
			r.Patch("/{shortCode}", deps.shortURL.Update)
			r.Delete("/{shortCode}", deps.shortURL.Delete)
		})

		// Internal routes guarded by the shared key
		r.Route("/internal", func(r chi.Router) {
			r.Use(middleware.InternalAuth(middleware.InternalAuthConfig{
				Logger:  logger,
				Key:     cfg.InternalAPIKey,
				KeyHash: cfg.InternalAPIKeyHash,
			}))

			r.Route("/domains", func(r chi.Router) {
				r.Post("/configure", deps.domain.Configure)
				r.Get("/{domain}/status", deps.domain.Status)
				r.Post("/{domain}/ssl-status", deps.domain.UpdateSSL)
				r.Delete("/{domain}", deps.domain.Remove)
			})

			r.Get("/accounts/{accountID}/domains", deps.domain.ListForAccount)
			r.Get("/metrics", deps.metrics.Metrics)
		})
	})

	// TLS ask endpoint consumed by the reverse proxy (no auth; the proxy
	// calls it over the private network)
	r.Get("/caddy/validate-domain", deps.caddy.ValidateDomain)

	// Redirect handler with IP-based rate limiting (no auth required)
	r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/{shortCode}", deps.redirect.Redirect)

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

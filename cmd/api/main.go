// Package main is the entrypoint for the resume grader API server.
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

	"github.com/jainamshah2028/ai-resume-grader/internal/cache"
	"github.com/jainamshah2028/ai-resume-grader/internal/config"
	"github.com/jainamshah2028/ai-resume-grader/internal/handler"
	"github.com/jainamshah2028/ai-resume-grader/internal/metrics"
	"github.com/jainamshah2028/ai-resume-grader/internal/middleware"
	"github.com/jainamshah2028/ai-resume-grader/internal/repository"
	"github.com/jainamshah2028/ai-resume-grader/internal/server"
	"github.com/jainamshah2028/ai-resume-grader/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	metricsRecorder := metrics.NewInMemory()
	analysisService := service.NewAnalysisService(repo, cacheClient, service.AnalysisServiceOptions{
		MaxResumeSize:           cfg.MaxResumeSize,
		MaxJobDescriptionLength: cfg.MaxJobDescriptionLength,
		MinKeywordLength:        cfg.MinKeywordLength,
	}, metricsRecorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)
	apiKeyHandler := handler.NewAPIKeyHandler(logger, repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	pageHandler := handler.NewPageHandler()

	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		analysis: analysisHandler,
		apiKeys:  apiKeyHandler,
		metrics:  metricsHandler,
		page:     pageHandler,
		repo:     repo,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
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

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
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
	analysis *handler.AnalysisHandler
	apiKeys  *handler.APIKeyHandler
	metrics  *handler.MetricsHandler
	page     *handler.PageHandler
	repo     *repository.Repository
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      deps.cfg.IsDevelopment(),
		MaxRequestBodySize: deps.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Browser upload page
	r.Get("/", deps.page.Index)

	authCfg := middleware.AuthConfig{
		Logger:     deps.logger,
		Repository: deps.repo,
		Cache:      deps.cache,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:         deps.logger,
		Cache:          deps.cache,
		APIEnabled:     deps.cfg.RateLimitAPIEnabled,
		AnalyzeEnabled: deps.cfg.RateLimitAnalyzeEnabled,
		AnalyzeRPS:     deps.cfg.RateLimitAnalyzeRPS,
		AnalyzeBurst:   deps.cfg.RateLimitAnalyzeBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Analysis creation and reads are open so the upload page works
		// without a key. Both are IP rate limited.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Post("/analyses", deps.analysis.Create)
			r.Get("/analyses/{id}", deps.analysis.Get)
		})

		// Key-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitAPI(rateLimitCfg))

			r.With(middleware.RequireRead()).Get("/analyses", deps.analysis.List)
			r.With(middleware.RequireAdmin()).Delete("/analyses/{id}", deps.analysis.Delete)

			r.Route("/api-keys", func(r chi.Router) {
				r.With(middleware.RequireRead()).Get("/", deps.apiKeys.ListAPIKeys)
				r.With(middleware.RequireAdmin()).Post("/", deps.apiKeys.CreateAPIKey)
				r.With(middleware.RequireAdmin()).Delete("/{key_id}", deps.apiKeys.RevokeAPIKey)
			})
		})
	})

	// Operator metrics
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.With(middleware.RequireAdmin()).Get("/metrics", deps.metrics.Metrics)
	})

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

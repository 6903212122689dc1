package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/middleware"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/server"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui/templates"
)

const (
	version       = "1.0.0"
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "private, max-age=60"
	sweepInterval = time.Minute
)

// dashboardHandler renders the page shell with the filter options of the
// loaded dataset.
func dashboardHandler(analytics *services.Analytics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		opts, err := analytics.Options()
		if err != nil {
			logger.ErrorContext(ctx, "dashboard unavailable", "error", err)
			http.Error(w, "dataset unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(opts).Render(ctx, w); err != nil {
			logger.ErrorContext(ctx, "render dashboard", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// newHandler wires the routes behind the middleware chain. Metrics sits
// innermost so it sees the matched route pattern.
func newHandler(cfg *config.Config, analytics *services.Analytics, metrics *observability.Metrics, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, metrics, logger, &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics, logger),
	})

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
		middleware.Metrics(metrics),
	)
	return middlewareChain(srv)
}

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"dataset", cfg.Dataset.CSVFile,
	)

	shutdownTracing, err := observability.InitTracing(context.Background(), cfg.Telemetry, os.Stdout)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	var metrics *observability.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	loader := dataset.NewLoader(cfg.Dataset, logger)
	holder := dataset.NewHolder(func() (*dataset.Dataset, error) {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
		defer cancel()
		return loader.Load(ctx, cfg.Dataset.CSVFile)
	})

	start := time.Now()
	ds, err := holder.Get()
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.Dataset.CSVFile, "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded",
		"records", len(ds.Records),
		"encoding", ds.Encoding,
		"duration", time.Since(start),
	)

	analytics := services.NewAnalytics(holder, cfg.Dashboard, metrics, logger)

	limiter := middleware.NewRateLimiter(cfg.Security)
	stopSweep := make(chan struct{})
	go limiter.Run(sweepInterval, stopSweep)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, metrics, limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("rate-limiter", func(ctx context.Context) error {
		close(stopSweep)
		return nil
	})
	gracefulServer.RegisterShutdownHook("tracing", shutdownTracing)

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

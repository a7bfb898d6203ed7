// PermitDesk API
//
// Permission request record management service. SQLite is the system of
// record; every accepted change is mirrored into a search index and
// announced on an event stream, best-effort.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.permitdesk.tech/internal/common/health"
	"go.permitdesk.tech/internal/common/lifecycle"
	"go.permitdesk.tech/internal/platform/api"
	"go.permitdesk.tech/internal/platform/events"
	"go.permitdesk.tech/internal/platform/permission"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Configure logging
	setupLogging()

	slog.Info("Starting PermitDesk API",
		"version", version,
		"build_time", buildTime)

	ctx := context.Background()

	// ========================================
	// 1. INFRASTRUCTURE INITIALIZATION
	// ========================================
	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{
		NeedsDatabase: true,
		NeedsSearch:   true,
		NeedsQueue:    true,
	})
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Provision the index and the stream once, before serving. A mutating
	// request must never be the first thing to discover they are missing.
	if err := app.Search.EnsureIndexExists(ctx); err != nil {
		slog.Error("Failed to provision search index", "error", err)
		os.Exit(1)
	}
	if err := app.Provisioner.EnsureStream(ctx); err != nil {
		slog.Error("Failed to provision event stream", "error", err)
		os.Exit(1)
	}

	// ========================================
	// 2. COMPONENT WIRING
	// ========================================

	// Health checker
	healthChecker := health.NewChecker()
	healthChecker.AddReadinessCheck(health.SQLiteCheck(func() error {
		return app.DB.PingContext(ctx)
	}))
	healthChecker.AddReadinessCheck(health.SearchIndexCheck(func() error {
		return app.Search.Ping(ctx)
	}))
	healthChecker.AddReadinessCheck(health.NATSCheck(app.NATSConnected))

	// Domain wiring
	uowFactory := permission.NewFactory(app.DB)
	announcer := events.NewAnnouncer(app.Publisher, app.Config.Queue.NATS.Subject)
	permissionHandler := api.NewPermissionHandler(uowFactory, app.Search, announcer)

	// HTTP Router
	httpRouter := setupHTTPRouter(app, healthChecker, permissionHandler)

	// HTTP Server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Config.HTTP.Port),
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ========================================
	// 3. SERVICE STARTUP
	// ========================================
	httpService := lifecycle.NewHTTPService("permitdesk-api", httpServer)

	slog.Info("PermitDesk API ready", "port", app.Config.HTTP.Port)

	// ========================================
	// 4. RUN UNTIL SHUTDOWN
	// ========================================
	if err := lifecycle.Run(ctx, httpService); err != nil {
		slog.Error("Service error", "error", err)
		os.Exit(1)
	}

	slog.Info("PermitDesk API stopped")
}

// setupLogging configures the slog default logger.
func setupLogging() {
	logLevel := slog.LevelInfo
	if os.Getenv("PERMITDESK_DEV") == "true" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// setupHTTPRouter creates the HTTP router with all routes and middleware.
func setupHTTPRouter(
	app *lifecycle.App,
	healthChecker *health.Checker,
	permissionHandler *api.PermissionHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(api.Metrics)
	r.Use(api.RateLimit(app.Config.HTTP.RateLimit, app.Config.HTTP.RateBurst))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.Config.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints, with plain aliases for external probes
	r.Get("/q/health", healthChecker.HandleHealth)
	r.Get("/q/health/live", healthChecker.HandleLive)
	r.Get("/q/health/ready", healthChecker.HandleReady)
	r.Get("/health", healthChecker.HandleHealth)
	r.Get("/health/live", healthChecker.HandleLive)
	r.Get("/health/ready", healthChecker.HandleReady)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/q/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Mount("/permissions", permissionHandler.Routes())
	})

	return r
}

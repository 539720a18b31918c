// Package app wires the application together: configuration, logger,
// dashboard service, HTTP router and server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"prodpulse/internal/config"
	"prodpulse/internal/infrastructure"
	"prodpulse/internal/middleware"
	"prodpulse/internal/services"
	handlers "prodpulse/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Router    *chi.Mux
	Server    *http.Server
	Dashboard *services.DashboardService
	Metrics   *infrastructure.HTTPMetrics
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("workbook", cfg.Dataset.WorkbookPath),
		slog.Int("port", cfg.Server.Port))

	dashboard := services.NewDashboardService(cfg.Dataset.WorkbookPath, logger, nil)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Dashboard: dashboard,
		Metrics:   infrastructure.NewHTTPMetrics(),
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// buildRouter assembles the middleware chain and mounts the API
func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Metrics(a.Metrics))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(chimiddleware.Timeout(a.Config.Server.RequestTimeout))
	r.Use(middleware.RateLimiter(a.Config.Security.RateLimit))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", a.Metrics.Handler())

	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger)
	r.Mount("/api/dashboard", dashboardHandler.Routes())

	return r
}

// Run starts the HTTP server and blocks until shutdown. SIGINT and
// SIGTERM trigger a graceful shutdown bounded by the configured
// shutdown timeout.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.Logger.Info("server stopped")

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Shutdown stops the server programmatically. Used by tests.
func (a *Application) Shutdown(ctx context.Context) error {
	return a.Server.Shutdown(ctx)
}

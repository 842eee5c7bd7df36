package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/enmirex/cashoffer/internal/api/router"
	"github.com/enmirex/cashoffer/internal/app/bootstrap"
	appconfig "github.com/enmirex/cashoffer/internal/config"
	"github.com/enmirex/cashoffer/internal/http/handlers"
	"github.com/enmirex/cashoffer/internal/leads"
	"github.com/enmirex/cashoffer/internal/observability/metrics"
	"github.com/enmirex/cashoffer/internal/telemetry"
	"github.com/enmirex/cashoffer/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting cashoffer API server",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)
	for _, w := range cfg.Warnings() {
		logger.Warn("configuration warning", "detail", w)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "cashoffer-api",
		Environment: cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	metricsHandler, leadMetrics, httpMetrics := setupMetrics()
	sinks, err := bootstrap.BuildSinks(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build lead sinks", "error", err)
		os.Exit(1)
	}
	dispatcher := leads.NewDispatcher(logger, leadMetrics, sinks...)
	logger.Info("lead sinks registered", "sinks", dispatcher.Sinks())

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(newRouter(cfg, logger, leads.NewInMemoryRepository(), dispatcher, metricsHandler, leadMetrics, httpMetrics), "cashoffer-api"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	// Let in-flight sink tasks finish; leads still in memory are lost on exit.
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("lead sync tasks still running at exit", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("trace flush failed", "error", err)
	}

	logger.Info("server stopped")
}

func setupMetrics() (http.Handler, *metrics.LeadMetrics, *metrics.HTTPMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, metrics.NewLeadMetrics(reg), metrics.NewHTTPMetrics(reg)
}

func newRouter(
	cfg *appconfig.Config,
	logger *logging.Logger,
	repo leads.Repository,
	forwarder leads.Forwarder,
	metricsHandler http.Handler,
	leadMetrics *metrics.LeadMetrics,
	httpMetrics *metrics.HTTPMetrics,
) http.Handler {
	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(repo, forwarder, logger).WithObserver(leadMetrics),
		HealthHandler:      handlers.NewHealthHandler(cfg.Env),
		MetricsHandler:     metricsHandler,
		HTTPMetrics:        httpMetrics,
		CORSAllowedOrigins: cfg.CORSOrigin,
		Production:         cfg.IsProduction(),
		TrustProxy:         cfg.TrustProxy,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
	}
	if cfg.StaticDir != "" {
		routerCfg.StaticHandler = handlers.NewSPAHandler(cfg.StaticDir)
	}
	return router.New(routerCfg)
}

// Command circulationd serves the school library's borrowing and penalty API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // LIBRARY_TIMEZONE must resolve on minimal images

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/schoollibrary/circulation/eventstore/oteladapters"
	"github.com/schoollibrary/circulation/eventstore/promadapters"
	"github.com/schoollibrary/circulation/internal/bootstrap"
	"github.com/schoollibrary/circulation/internal/config"
	"github.com/schoollibrary/circulation/internal/httpapi"
	"github.com/schoollibrary/circulation/internal/sweeper"
	"github.com/schoollibrary/circulation/internal/telemetry"
	"github.com/schoollibrary/circulation/library/circulation"
	"github.com/schoollibrary/circulation/library/shell"
)

func main() {
	if err := run(); err != nil {
		slog.Error("circulationd failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := config.SetupLogger(cfg)
	logger.Info("starting circulationd",
		slog.String("version", config.Version),
		slog.String("backend", cfg.Backend),
		slog.String("timezone", cfg.Location.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, config.Version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("flushing telemetry", slog.String("error", err.Error()))
		}
	}()

	metrics := promadapters.NewMetricsCollector(
		prometheus.DefaultRegisterer,
		promadapters.WithNamespace("library"),
		promadapters.WithLogger(logger),
	)

	store, err := bootstrap.OpenEventStore(ctx, cfg, logger, metrics)
	if err != nil {
		return fmt.Errorf("opening event store: %w", err)
	}
	defer store.Close()

	var readiness httpapi.ReadinessChecker
	if store.Readiness != nil {
		readiness = store.Readiness
	}

	var contextualLogger shell.ContextualLogger = logger
	if cfg.OTelLogBridge {
		contextualLogger = oteladapters.NewSlogBridgeLogger(telemetry.ServiceName)
	}

	service, err := circulation.NewService(store.EventStore,
		circulation.WithLocation(cfg.Location),
		circulation.WithRetryOptions(
			shell.WithMaxAttempts(cfg.ConflictRetryAttempts),
			shell.WithBaseDelay(cfg.RetryBaseDelay),
		),
		circulation.WithObservability(circulation.Observability{
			Metrics:          metrics,
			Tracing:          oteladapters.NewTracingCollector(otel.Tracer(telemetry.ServiceName)),
			ContextualLogger: contextualLogger,
			Logger:           logger,
		}),
	)
	if err != nil {
		return fmt.Errorf("creating circulation service: %w", err)
	}

	housekeeping := sweeper.New(service, cfg.SweepInterval, logger)
	housekeeping.Start(ctx)
	defer housekeeping.Stop()

	router := httpapi.NewRouter(
		httpapi.NewHandler(service, logger),
		httpapi.NewHealthHandler(readiness, config.Version),
		logger,
	)

	server := httpapi.NewServer(httpapi.ServerConfig{
		Port:            cfg.Port,
		ReadTimeout:     cfg.HTTPReadTimeout,
		WriteTimeout:    cfg.HTTPWriteTimeout,
		IdleTimeout:     cfg.HTTPIdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, router, logger)

	return server.Run(ctx)
}

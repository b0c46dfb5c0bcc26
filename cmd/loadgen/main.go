// Command loadgen drives the circulation service with concurrent, randomized borrowing traffic.
// Storage is configured through the same LIBRARY_* variables as circulationd; a simulated clock
// makes loans run overdue within minutes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schoollibrary/circulation/eventstore"
	"github.com/schoollibrary/circulation/eventstore/promadapters"
	"github.com/schoollibrary/circulation/internal/bootstrap"
	"github.com/schoollibrary/circulation/internal/config"
	"github.com/schoollibrary/circulation/library/circulation"
	"github.com/schoollibrary/circulation/library/shell"
)

const (
	defaultRate            = 20
	defaultInitialBooks    = 200
	defaultStudents        = 100
	defaultScenarioWeights = "50,35,15" // lending, returning, catalog
	defaultSimDayEvery     = 10 * time.Second
)

// Config holds the generator settings from the command line.
type Config struct {
	Rate            int
	Duration        time.Duration
	InitialBooks    int
	Students        int
	ScenarioWeights []int
	SimDayEvery     time.Duration
	MetricsAddr     string
}

func main() {
	if err := run(); err != nil {
		slog.Error("loadgen failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	genCfg, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if genCfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, genCfg.Duration)
		defer cancel()
	}

	var metrics *promadapters.MetricsCollector
	if genCfg.MetricsAddr != "" {
		metrics = promadapters.NewMetricsCollector(prometheus.DefaultRegisterer,
			promadapters.WithNamespace("library_loadgen"),
			promadapters.WithLogger(logger),
		)

		go serveMetrics(genCfg.MetricsAddr, logger)
	}

	var storeMetrics eventstore.MetricsCollector
	if metrics != nil {
		storeMetrics = metrics
	}

	store, err := bootstrap.OpenEventStore(ctx, cfg, logger, storeMetrics)
	if err != nil {
		return fmt.Errorf("opening event store: %w", err)
	}
	defer store.Close()

	clock := newSimClock(time.Now(), genCfg.SimDayEvery)

	options := []circulation.Option{
		circulation.WithClock(clock.Now),
		circulation.WithLocation(cfg.Location),
		circulation.WithRetryOptions(shell.WithMaxAttempts(max(3, cfg.ConflictRetryAttempts))),
	}
	if metrics != nil {
		options = append(options, circulation.WithObservability(circulation.Observability{
			Metrics: metrics,
			Logger:  logger,
		}))
	}

	service, err := circulation.NewService(store.EventStore, options...)
	if err != nil {
		return fmt.Errorf("creating circulation service: %w", err)
	}

	generator := NewLoadGenerator(service, genCfg, logger)
	if err := generator.Seed(ctx); err != nil {
		return err
	}

	logger.Info("load generator started",
		slog.Int("rate", genCfg.Rate),
		slog.Any("scenario_weights", genCfg.ScenarioWeights),
		slog.Duration("sim_day_every", genCfg.SimDayEvery),
	)

	generator.Run(ctx)

	summaryCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := service.PenaltySummary(summaryCtx)
	if err != nil {
		return fmt.Errorf("reading penalty summary: %w", err)
	}

	logger.Info("circulation at end of run",
		slog.Int("active_loans", summary.ActiveLoans),
		slog.Int("overdue_loans", summary.OverdueLoans),
		slog.Int("banned_students", summary.BannedStudents),
		slog.String("collected", summary.Collected.StringFixed(2)),
	)

	return nil
}

func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("loadgen", flag.ContinueOnError)

	var (
		rate         = fs.Int("rate", defaultRate, "scenarios per second")
		duration     = fs.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
		initialBooks = fs.Int("initial-books", defaultInitialBooks, "titles to add before the run")
		students     = fs.Int("students", defaultStudents, "borrowers to register before the run")
		weights      = fs.String("scenario-weights", defaultScenarioWeights, "comma-separated weights for lending,returning,catalog")
		simDayEvery  = fs.Duration("sim-day-every", defaultSimDayEvery, "wall time of one simulated day")
		metricsAddr  = fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *rate < 1 {
		return Config{}, fmt.Errorf("rate must be >= 1, got %d", *rate)
	}

	if *simDayEvery <= 0 {
		return Config{}, fmt.Errorf("sim-day-every must be > 0, got %s", *simDayEvery)
	}

	scenarioWeights, err := parseScenarioWeights(*weights)
	if err != nil {
		return Config{}, fmt.Errorf("invalid scenario weights %q: %w", *weights, err)
	}

	return Config{
		Rate:            *rate,
		Duration:        *duration,
		InitialBooks:    *initialBooks,
		Students:        *students,
		ScenarioWeights: scenarioWeights,
		SimDayEvery:     *simDayEvery,
		MetricsAddr:     *metricsAddr,
	}, nil
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", slog.String("error", err.Error()))
	}
}

func parseScenarioWeights(weightsStr string) ([]int, error) {
	parts := strings.Split(weightsStr, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 weights, got %d", len(parts))
	}

	weights := make([]int, 3)
	total := 0

	for i, part := range parts {
		weight, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", part, err)
		}

		if weight < 0 || weight > 100 {
			return nil, fmt.Errorf("weight %d out of range [0, 100]", weight)
		}

		weights[i] = weight
		total += weight
	}

	if total != 100 {
		return nil, fmt.Errorf("weights must sum to 100, got %d", total)
	}

	return weights, nil
}

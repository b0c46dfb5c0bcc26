// Package config loads the daemon's configuration from LIBRARY_* environment variables.
// A .env file in the working directory is read first when it exists; variables that are
// already set in the environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// Storage backends.
const (
	BackendMemory  = "memory"
	BackendPGXPool = "pgxpool"
	BackendSQLDB   = "sqldb"
	BackendSQLX    = "sqlx"
)

// Config holds all settings of the circulation daemon.
type Config struct {
	// --- Server ---

	Port      int
	LogLevel  slog.Level
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration

	// --- Domain ---

	// Location is the library's time zone. Due dates and overdue days are counted in its calendar days.
	Location *time.Location
	// SweepInterval is how often the archive sweep and the overdue scan run.
	SweepInterval time.Duration
	// ConflictRetryAttempts is the number of attempts of a command that loses a race. 1 means no retry.
	ConflictRetryAttempts int
	RetryBaseDelay        time.Duration

	// --- Storage ---

	// Backend is memory when no database is configured.
	Backend        string
	DatabaseDSN    string
	DBMaxConns     int
	EventTable     string
	MigrateOnStart bool

	// --- Observability ---

	// OTLPEndpoint enables span export over OTLP/gRPC when set.
	OTLPEndpoint string
	// OTelLogBridge routes handler logs through the OpenTelemetry slog bridge.
	OTelLogBridge bool
}

// Load reads the configuration. It returns an error naming the variable when a value is invalid.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	var err error

	// --- Server ---

	cfg.Port, err = getEnvInt("LIBRARY_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("LIBRARY_PORT: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("LIBRARY_PORT: %d is not a valid port", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LIBRARY_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LIBRARY_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("LIBRARY_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LIBRARY_LOG_FORMAT: invalid format %q, allowed: json, text", cfg.LogFormat)
	}

	if cfg.HTTPReadTimeout, err = getEnvDuration("LIBRARY_HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("LIBRARY_HTTP_READ_TIMEOUT: %w", err)
	}

	if cfg.HTTPWriteTimeout, err = getEnvDuration("LIBRARY_HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("LIBRARY_HTTP_WRITE_TIMEOUT: %w", err)
	}

	if cfg.HTTPIdleTimeout, err = getEnvDuration("LIBRARY_HTTP_IDLE_TIMEOUT", 120*time.Second); err != nil {
		return nil, fmt.Errorf("LIBRARY_HTTP_IDLE_TIMEOUT: %w", err)
	}

	if cfg.ShutdownTimeout, err = getEnvDuration("LIBRARY_SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("LIBRARY_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Domain ---

	cfg.Location, err = time.LoadLocation(getEnvDefault("LIBRARY_TIMEZONE", "Asia/Manila"))
	if err != nil {
		return nil, fmt.Errorf("LIBRARY_TIMEZONE: %w", err)
	}

	if cfg.SweepInterval, err = getEnvDuration("LIBRARY_SWEEP_INTERVAL", time.Hour); err != nil {
		return nil, fmt.Errorf("LIBRARY_SWEEP_INTERVAL: %w", err)
	}

	if cfg.SweepInterval <= 0 {
		return nil, errors.New("LIBRARY_SWEEP_INTERVAL: must be > 0")
	}

	cfg.ConflictRetryAttempts, err = getEnvInt("LIBRARY_CONFLICT_RETRY_ATTEMPTS", 1)
	if err != nil {
		return nil, fmt.Errorf("LIBRARY_CONFLICT_RETRY_ATTEMPTS: %w", err)
	}

	if cfg.ConflictRetryAttempts < 1 {
		return nil, errors.New("LIBRARY_CONFLICT_RETRY_ATTEMPTS: must be >= 1")
	}

	if cfg.RetryBaseDelay, err = getEnvDuration("LIBRARY_RETRY_BASE_DELAY", 10*time.Millisecond); err != nil {
		return nil, fmt.Errorf("LIBRARY_RETRY_BASE_DELAY: %w", err)
	}

	// --- Storage ---

	if err := loadStorage(cfg); err != nil {
		return nil, err
	}

	// --- Observability ---

	cfg.OTLPEndpoint = getEnvDefault("LIBRARY_OTLP_ENDPOINT", "")

	if cfg.OTelLogBridge, err = getEnvBool("LIBRARY_OTEL_LOG_BRIDGE", false); err != nil {
		return nil, fmt.Errorf("LIBRARY_OTEL_LOG_BRIDGE: %w", err)
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	var err error

	cfg.DatabaseDSN = getEnvDefault("LIBRARY_DATABASE_DSN", "")
	if cfg.DatabaseDSN == "" && os.Getenv("LIBRARY_DB_HOST") != "" {
		cfg.DatabaseDSN, err = buildDSN()
		if err != nil {
			return err
		}
	}

	defaultBackend := BackendMemory
	if cfg.DatabaseDSN != "" {
		defaultBackend = BackendPGXPool
	}

	cfg.Backend = getEnvDefault("LIBRARY_DB_BACKEND", defaultBackend)
	switch cfg.Backend {
	case BackendMemory:
	case BackendPGXPool, BackendSQLDB, BackendSQLX:
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("LIBRARY_DB_BACKEND: %s needs LIBRARY_DATABASE_DSN or LIBRARY_DB_HOST", cfg.Backend)
		}
	default:
		return fmt.Errorf("LIBRARY_DB_BACKEND: invalid backend %q, allowed: memory, pgxpool, sqldb, sqlx", cfg.Backend)
	}

	if cfg.DBMaxConns, err = getEnvInt("LIBRARY_DB_MAX_CONNS", 10); err != nil {
		return fmt.Errorf("LIBRARY_DB_MAX_CONNS: %w", err)
	}

	cfg.EventTable = getEnvDefault("LIBRARY_EVENT_TABLE", "events")

	if cfg.MigrateOnStart, err = getEnvBool("LIBRARY_DB_MIGRATE", true); err != nil {
		return fmt.Errorf("LIBRARY_DB_MIGRATE: %w", err)
	}

	return nil
}

// buildDSN assembles a postgres:// URL from the LIBRARY_DB_* parts.
func buildDSN() (string, error) {
	port, err := getEnvInt("LIBRARY_DB_PORT", 5432)
	if err != nil {
		return "", fmt.Errorf("LIBRARY_DB_PORT: %w", err)
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnvDefault("LIBRARY_DB_USER", "library"), os.Getenv("LIBRARY_DB_PASSWORD")),
		Host:   os.Getenv("LIBRARY_DB_HOST") + ":" + strconv.Itoa(port),
		Path:   "/" + getEnvDefault("LIBRARY_DB_NAME", "library"),
	}

	query := url.Values{}
	query.Set("sslmode", getEnvDefault("LIBRARY_DB_SSLMODE", "disable"))
	dsn.RawQuery = query.Encode()

	return dsn.String(), nil
}

// SetupLogger builds the process logger and makes it the slog default.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// --- helpers ---

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return nil
}

func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	return val
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", val)
	}

	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use Go format: 30s, 1h, 15m)", val)
	}

	return d, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q (allowed: true, false, 1, 0)", val)
	}

	return b, nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid level %q, allowed: debug, info, warn, error", level)
	}
}

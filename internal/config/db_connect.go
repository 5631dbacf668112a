package config

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection configuration
type DBConfig struct {
	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string

	// Logger for structured logging (optional, uses slog.Default if nil)
	Logger *slog.Logger

	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// ConnectTimeout is the timeout for establishing connections
	ConnectTimeout time.Duration

	// MaxRetries is the maximum number of connection attempts
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts (exponential backoff)
	RetryDelay time.Duration
}

// DefaultDBConfig returns a default database configuration
func DefaultDBConfig(databaseURL string) *DBConfig {
	return &DBConfig{
		DatabaseURL:       databaseURL,
		MaxConns:          10,
		MinConns:          2,
		HealthCheckPeriod: 1 * time.Minute,
		ConnectTimeout:    10 * time.Second,
		MaxRetries:        3,
		RetryDelay:        1 * time.Second,
	}
}

// DBConfigFrom builds a pool configuration from the loaded database settings
func DBConfigFrom(cfg DatabaseConfig, logger *slog.Logger) *DBConfig {
	dbConfig := DefaultDBConfig(cfg.URL)
	dbConfig.Logger = logger
	if cfg.MaxConns > 0 {
		dbConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		dbConfig.MinConns = cfg.MinConns
	}
	if cfg.HealthCheckPeriod > 0 {
		dbConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	dbConfig.MaxConnLifetime = cfg.MaxConnLifetime
	dbConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	return dbConfig
}

// NewPool creates a new database connection pool with the given configuration
func NewPool(config *DBConfig) (*pgxpool.Pool, error) {
	if config == nil {
		return nil, fmt.Errorf("database config cannot be nil")
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}

	logger.Info("initializing database connection pool",
		"max_conns", config.MaxConns,
		"min_conns", config.MinConns,
		"health_check_period", config.HealthCheckPeriod.String(),
	)

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns
	poolConfig.MaxConnLifetime = config.MaxConnLifetime
	poolConfig.MaxConnIdleTime = config.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = config.HealthCheckPeriod

	if config.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = config.ConnectTimeout
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		pool, err := connect(poolConfig, config.ConnectTimeout)
		if err == nil {
			logger.Info("database connection pool established",
				"attempt", attempt,
				"total_conns", pool.Stat().TotalConns(),
			)
			return pool, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, config.MaxRetries, err)
		logger.Warn("failed to connect to database",
			"attempt", attempt,
			"max_retries", config.MaxRetries,
			"error", err,
		)

		if attempt < config.MaxRetries {
			delay := calculateBackoff(config.RetryDelay, attempt)
			logger.Info("retrying database connection", "delay", delay.String())
			time.Sleep(delay)
		}
	}

	logger.Error("failed to establish database connection after all retries",
		"max_retries", config.MaxRetries,
		"error", lastErr,
	)

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", config.MaxRetries, lastErr)
}

// connect creates the pool and verifies it with a ping
func connect(poolConfig *pgxpool.Config, timeout time.Duration) (*pgxpool.Pool, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// calculateBackoff calculates exponential backoff delay, capped at 30 seconds
func calculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	multiplier := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(baseDelay) * multiplier)

	maxDelay := 30 * time.Second
	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}

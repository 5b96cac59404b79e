// Package database provides PostgreSQL connection management.
package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds database connection configuration.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	port, _ := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	maxOpen, _ := strconv.Atoi(getEnvOrDefault("DB_MAX_OPEN_CONNS", "10"))
	maxIdle, _ := strconv.Atoi(getEnvOrDefault("DB_MAX_IDLE_CONNS", "5"))
	lifetime, _ := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "5m"))

	return Config{
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("DB_USER", "airvigil"),
		Password:        getEnvOrDefault("DB_PASSWORD", "localdev"),
		Database:        getEnvOrDefault("DB_NAME", "airvigil"),
		SSLMode:         getEnvOrDefault("DB_SSL_MODE", "disable"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
	}
}

// ConnectionString returns the PostgreSQL connection string.
func (c Config) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Connect creates a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns) //nolint:gosec // bounded by config
	poolConfig.MinConns = int32(cfg.MaxIdleConns) //nolint:gosec // bounded by config
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// schema holds the table definitions. Statements are idempotent so
// EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS readings (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		source TEXT NOT NULL DEFAULT 'sensor',
		aqi INTEGER NOT NULL DEFAULT 0,
		temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
		humidity DOUBLE PRECISION NOT NULL DEFAULT 0,
		pm25 DOUBLE PRECISION NOT NULL DEFAULT 0,
		pm10 DOUBLE PRECISION NOT NULL DEFAULT 0,
		o3 DOUBLE PRECISION NOT NULL DEFAULT 0,
		co DOUBLE PRECISION NOT NULL DEFAULT 0,
		so2 DOUBLE PRECISION NOT NULL DEFAULT 0,
		no2 DOUBLE PRECISION NOT NULL DEFAULT 0,
		nh3 DOUBLE PRECISION NOT NULL DEFAULT 0,
		methane DOUBLE PRECISION NOT NULL DEFAULT 0,
		air_quality DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS readings_created_at_idx ON readings (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS readings_local_latest_idx
		ON readings (created_at DESC) WHERE source = 'sensor'`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		email TEXT PRIMARY KEY,
		threshold INTEGER NOT NULL,
		has_asthma BOOLEAN NOT NULL DEFAULT FALSE,
		has_allergies BOOLEAN NOT NULL DEFAULT FALSE,
		has_respiratory_conditions BOOLEAN NOT NULL DEFAULT FALSE,
		other_conditions TEXT NOT NULL DEFAULT '',
		condition_severity TEXT NOT NULL DEFAULT 'None',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_notified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS subscriptions_active_idx ON subscriptions (active) WHERE active`,
}

// EnsureSchema creates the tables and indexes the repositories expect.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

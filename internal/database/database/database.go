// Package database provides database connection management for PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/database/config"
	"github.com/festy23/converge/internal/database/pool"
	"github.com/festy23/converge/pkg/retry"
)

// Options groups everything needed to open a connection.
type Options struct {
	Config config.Config
	Pool   pool.Config
	Retry  retry.Config
	Logger *zap.SugaredLogger
}

// OptionsFromEnv loads connection, pool and retry settings from the environment.
func OptionsFromEnv(logger *zap.SugaredLogger) Options {
	return Options{
		Config: config.LoadConfigFromEnv(),
		Pool:   pool.LoadFromEnv(),
		Retry:  config.LoadRetryConfigFromEnv(),
		Logger: logger,
	}
}

// Open connects to PostgreSQL, retrying transient failures, and configures the pool.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	retryCfg := opts.Retry
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("database not ready, retrying",
			"attempt", attempt,
			"delay", delay.String(),
			"error", config.SanitizeError(err, opts.Config),
		)
	}

	dsn := config.BuildDSN(opts.Config)
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), GormConfig(logger))
	})
	if err != nil {
		return nil, config.SanitizeError(err, opts.Config)
	}

	if err := pool.SetupConnectionPool(db, opts.Pool); err != nil {
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	logger.Infow("database connected",
		"host", opts.Config.Host,
		"db", opts.Config.DBName,
		"max_open_conns", opts.Pool.MaxOpenConns,
	)
	return db, nil
}

// GormConfig is the gorm configuration shared by production and test connections.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig(logger *zap.SugaredLogger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger),
	}
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}

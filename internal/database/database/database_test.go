package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/festy23/converge/internal/database/config"
	"github.com/festy23/converge/internal/database/pool"
	"github.com/festy23/converge/pkg/retry"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(zap.NewNop().Sugar()))
	require.NoError(t, err)
	return db
}

func TestOpen_InvalidConfig(t *testing.T) {
	db, err := Open(context.Background(), Options{Config: config.Config{SSLMode: "disable"}})
	assert.Nil(t, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing database settings")
}

func TestOpen_UnreachableHostSanitized(t *testing.T) {
	cfg := config.Config{
		Host:     "127.0.0.1",
		User:     "converge",
		Password: "topsecret",
		DBName:   "converge",
		Port:     "1",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
	retryCfg := retry.PostgresConfig()
	retryCfg.MaxAttempts = 2
	retryCfg.InitialDelay = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, Options{Config: cfg, Pool: pool.DefaultPoolConfig(), Retry: retryCfg})
	assert.Nil(t, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq_x"`)))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: profiles.email")))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	type item struct {
		ID   int64
		Code string `gorm:"uniqueIndex"`
	}
	db := openSQLite(t)
	defer func() { _ = Close(db) }()
	require.NoError(t, db.AutoMigrate(&item{}))

	require.NoError(t, db.Create(&item{Code: "a"}).Error)
	err := db.Create(&item{Code: "a"}).Error

	assert.True(t, IsUniqueViolation(err))
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy connection", func(t *testing.T) {
		db := openSQLite(t)
		defer func() { _ = Close(db) }()
		assert.NoError(t, HealthCheck(context.Background(), db))
	})

	t.Run("nil connection", func(t *testing.T) {
		err := HealthCheck(context.Background(), nil)
		assert.EqualError(t, err, "database connection is nil")
	})

	t.Run("closed connection", func(t *testing.T) {
		db := openSQLite(t)
		require.NoError(t, Close(db))
		err := HealthCheck(context.Background(), db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database ping failed")
	})
}

func TestClose(t *testing.T) {
	assert.NoError(t, Close(nil))

	db := openSQLite(t)
	assert.NoError(t, Close(db))
}

func TestGetStats(t *testing.T) {
	_, err := GetStats(nil)
	assert.Error(t, err)

	db := openSQLite(t)
	defer func() { _ = Close(db) }()
	require.NoError(t, pool.SetupConnectionPool(db, pool.Config{MaxOpenConns: 7, MaxIdleConns: 2}))

	stats, err := GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.MaxOpenConnections)
}

func TestGormLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewGormLogger(zap.New(core).Sugar())
	ctx := context.Background()
	fc := func() (string, int64) { return "SELECT 1", 1 }

	logger.Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
	logger.Trace(ctx, time.Now(), fc, gorm.ErrDuplicatedKey)
	assert.Zero(t, logs.Len())

	logger.Trace(ctx, time.Now(), fc, errors.New("syntax error"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "query failed", logs.All()[0].Message)

	logger.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow query", logs.All()[1].Message)

	silent := logger.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), fc, errors.New("ignored"))
	silent.Error(ctx, "ignored %d", 1)
	assert.Equal(t, 2, logs.Len())

	logger.Warn(ctx, "pool %s", "exhausted")
	logger.Info(ctx, "not logged at warn level")
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "pool exhausted", logs.All()[2].Message)
}

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbKeys = []string{
	"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "DB_SSLMODE", "DB_TIMEZONE",
	"DB_RETRY_MAX_ATTEMPTS", "DB_RETRY_INITIAL_DELAY", "DB_RETRY_MAX_DELAY", "DB_RETRY_MULTIPLIER",
}

// clearEnv unsets every database key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range dbKeys {
		t.Setenv(key, "")
	}
}

func validConfig() Config {
	return Config{
		Host:     "localhost",
		User:     "postgres",
		Password: "postgres",
		DBName:   "converge",
		Port:     "5432",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		clearEnv(t)
		assert.Equal(t, validConfig(), LoadConfigFromEnv())
	})

	t.Run("custom values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_USER", "converge")
		t.Setenv("DB_PASSWORD", "s3cret")
		t.Setenv("DB_NAME", "converge_test")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("DB_SSLMODE", "require")
		t.Setenv("DB_TIMEZONE", "Europe/Berlin")

		expected := Config{
			Host:     "db.internal",
			User:     "converge",
			Password: "s3cret",
			DBName:   "converge_test",
			Port:     "5433",
			SSLMode:  "require",
			TimeZone: "Europe/Berlin",
		}
		assert.Equal(t, expected, LoadConfigFromEnv())
	})

	t.Run("partial override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_PORT", "6432")

		expected := validConfig()
		expected.Port = "6432"
		assert.Equal(t, expected, LoadConfigFromEnv())
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing host and port",
			mutate:  func(c *Config) { c.Host = ""; c.Port = " " },
			wantErr: "missing database settings: DB_HOST, DB_PORT",
		},
		{
			name:    "missing name",
			mutate:  func(c *Config) { c.DBName = "" },
			wantErr: "DB_NAME",
		},
		{
			name:    "invalid sslmode",
			mutate:  func(c *Config) { c.SSLMode = "sometimes" },
			wantErr: "invalid DB_SSLMODE: sometimes",
		},
		{name: "empty password allowed", mutate: func(c *Config) { c.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.example.com",
		User:     "admin",
		Password: "secret123",
		DBName:   "converge",
		Port:     "5433",
		SSLMode:  "require",
		TimeZone: "UTC",
	}

	assert.Equal(t,
		"host=db.example.com user=admin password=secret123 dbname=converge port=5433 sslmode=require TimeZone=UTC",
		BuildDSN(cfg))
}

func TestSanitizeError(t *testing.T) {
	cfg := validConfig()
	cfg.Password = "hunter2"

	t.Run("password removed", func(t *testing.T) {
		err := SanitizeError(errors.New("failed to connect to `host=localhost password=hunter2`"), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to database")
		assert.Contains(t, err.Error(), "password=***")
		assert.NotContains(t, err.Error(), "hunter2")
	})

	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, SanitizeError(nil, cfg))
	})

	t.Run("empty password leaves message intact", func(t *testing.T) {
		noPassword := validConfig()
		noPassword.Password = ""
		err := SanitizeError(errors.New("dial tcp: connection refused"), noPassword)
		assert.EqualError(t, err, "failed to connect to database: dial tcp: connection refused")
	})
}

func TestLoadRetryConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg := LoadRetryConfigFromEnv()
		assert.Equal(t, 5, cfg.MaxAttempts)
		assert.Equal(t, time.Second, cfg.InitialDelay)
		assert.NotEmpty(t, cfg.RetryableErrors)
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_RETRY_MAX_ATTEMPTS", "2")
		t.Setenv("DB_RETRY_INITIAL_DELAY", "50ms")
		t.Setenv("DB_RETRY_MAX_DELAY", "1s")
		t.Setenv("DB_RETRY_MULTIPLIER", "1.5")

		cfg := LoadRetryConfigFromEnv()
		assert.Equal(t, 2, cfg.MaxAttempts)
		assert.Equal(t, 50*time.Millisecond, cfg.InitialDelay)
		assert.Equal(t, time.Second, cfg.MaxDelay)
		assert.InDelta(t, 1.5, cfg.Multiplier, 1e-9)
	})
}

package config

import (
	"fmt"
	"time"
)

// CacheConfig holds redis settings for the profile lookup cache.
type CacheConfig struct {
	// Addr is the redis address; empty disables caching.
	Addr     string
	Password string
	DB       int
	// TTL is how long a cached profile stays valid.
	TTL time.Duration
}

// LoadCacheConfigFromEnv loads cache configuration from environment variables.
func LoadCacheConfigFromEnv() CacheConfig {
	return CacheConfig{
		Addr:     GetEnv("REDIS_ADDR", ""),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
		TTL:      GetEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
	}
}

// Enabled reports whether a redis address is configured.
func (c CacheConfig) Enabled() bool {
	return c.Addr != ""
}

// Validate validates cache configuration. A disabled cache is always valid.
func (c CacheConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("PROFILE_CACHE_TTL must be greater than 0")
	}
	return nil
}

package config

import (
	"fmt"
	"time"
)

// minSecretLength is the shortest HS256 key accepted.
const minSecretLength = 32

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	// Secret is the HS256 signing key shared with the identity provider.
	Secret string
	// Issuer, when non-empty, must match the token's iss claim.
	Issuer string
	// TokenTTL is the lifetime of tokens issued by the token command.
	TokenTTL time.Duration
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		Secret:   GetEnv("JWT_SECRET", ""),
		Issuer:   GetEnv("JWT_ISSUER", "converge"),
		TokenTTL: GetEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be greater than 0")
	}
	return nil
}

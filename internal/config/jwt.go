package config

import (
	"fmt"
	"time"
)

// minSecretLength is the shortest HMAC secret accepted.
const minSecretLength = 16

// JWTConfig holds configuration for bearer token validation.
type JWTConfig struct {
	Secret string
	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration
}

// JWT returns the token validation settings, or nil when auth is disabled.
func (c *Config) JWT() (*JWTConfig, error) {
	if c.JWTSecret == "" {
		return nil, nil
	}
	jc := &JWTConfig{Secret: c.JWTSecret, Leeway: c.JWTLeeway}
	if err := jc.normalize(); err != nil {
		return nil, err
	}
	return jc, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("JWT secret must be at least %d characters, got %d", minSecretLength, len(c.Secret))
	}
	if c.Leeway < 0 {
		return fmt.Errorf("JWT leeway must be non-negative, got %s", c.Leeway)
	}
	return nil
}

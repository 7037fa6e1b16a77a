package authcore

import (
	"bytes"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token     TokenConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authcore APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by authcore APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Cost int
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by authcore APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	MaxAttempts      int
	LockoutWindow    time.Duration
	EnableIPThrottle bool
}

// MetricsConfig defines a public type used by authcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Placeholder secrets shipped for development only. [Builder.Build] logs a
// warning whenever either production secret still matches one of these.
var (
	placeholderAccessSecret  = []byte("authcore-dev-access-secret-change-me")
	placeholderRefreshSecret = []byte("authcore-dev-refresh-secret-change-me")
)

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessSecret:  placeholderAccessSecret,
			RefreshSecret: placeholderRefreshSecret,
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			Issuer:        "authcore",
			Leeway:        30 * time.Second,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:      5,
			LockoutWindow:    30 * time.Minute,
			EnableIPThrottle: false,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessSecret = cloneBytes(cfg.Token.AccessSecret)
	out.Token.RefreshSecret = cloneBytes(cfg.Token.RefreshSecret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	if len(c.Token.AccessSecret) < 32 {
		return errors.New("Token AccessSecret must be at least 32 bytes")
	}
	if len(c.Token.RefreshSecret) < 32 {
		return errors.New("Token RefreshSecret must be at least 32 bytes")
	}
	if bytes.Equal(c.Token.AccessSecret, c.Token.RefreshSecret) {
		return errors.New("Token AccessSecret and RefreshSecret must differ")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token AccessTTL must be > 0")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token RefreshTTL must be > 0")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("Token RefreshTTL must exceed AccessTTL")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	if c.Password.Cost < bcrypt.MinCost || c.Password.Cost > bcrypt.MaxCost {
		return errors.New("Password Cost out of bcrypt range")
	}

	if c.RateLimit.MaxAttempts <= 0 {
		return errors.New("RateLimit MaxAttempts must be > 0")
	}
	if c.RateLimit.LockoutWindow <= 0 {
		return errors.New("RateLimit LockoutWindow must be > 0")
	}

	return nil
}

// usesPlaceholderSecrets reports whether either signing secret still
// matches a development placeholder.
func (c *Config) usesPlaceholderSecrets() bool {
	return bytes.Equal(c.Token.AccessSecret, placeholderAccessSecret) ||
		bytes.Equal(c.Token.RefreshSecret, placeholderRefreshSecret)
}

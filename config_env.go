package authcore

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names honored by [ConfigFromEnv].
const (
	EnvAccessSecret     = "AUTHCORE_ACCESS_SECRET"
	EnvRefreshSecret    = "AUTHCORE_REFRESH_SECRET"
	EnvAccessTTL        = "AUTHCORE_ACCESS_TTL"
	EnvRefreshTTL       = "AUTHCORE_REFRESH_TTL"
	EnvLockoutThreshold = "AUTHCORE_LOCKOUT_THRESHOLD"
	EnvLockoutWindow    = "AUTHCORE_LOCKOUT_WINDOW"
	EnvBcryptCost       = "AUTHCORE_BCRYPT_COST"
	EnvIssuer           = "AUTHCORE_ISSUER"
	EnvAudience         = "AUTHCORE_AUDIENCE"
)

// ConfigFromEnv describes the configfromenv operation and its observable behavior.
//
// It starts from the package defaults and overrides each field whose
// environment variable is set. The result is not validated; [Builder.Build]
// validates the final configuration.
//
// ConfigFromEnv may return an error when input validation, dependency calls, or security checks fail.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()

	if v := os.Getenv(EnvAccessSecret); v != "" {
		cfg.Token.AccessSecret = []byte(v)
	}
	if v := os.Getenv(EnvRefreshSecret); v != "" {
		cfg.Token.RefreshSecret = []byte(v)
	}
	if v := os.Getenv(EnvIssuer); v != "" {
		cfg.Token.Issuer = v
	}
	if v := os.Getenv(EnvAudience); v != "" {
		cfg.Token.Audience = v
	}

	if v := os.Getenv(EnvAccessTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvAccessTTL, err)
		}
		cfg.Token.AccessTTL = d
	}
	if v := os.Getenv(EnvRefreshTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvRefreshTTL, err)
		}
		cfg.Token.RefreshTTL = d
	}
	if v := os.Getenv(EnvLockoutWindow); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLockoutWindow, err)
		}
		cfg.RateLimit.LockoutWindow = d
	}

	if v := os.Getenv(EnvLockoutThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLockoutThreshold, err)
		}
		cfg.RateLimit.MaxAttempts = n
	}
	if v := os.Getenv(EnvBcryptCost); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvBcryptCost, err)
		}
		cfg.Password.Cost = n
	}

	return cfg, nil
}

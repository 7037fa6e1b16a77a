package authcore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuskit/authcore/internal/metrics"
	"github.com/campuskit/authcore/internal/rate"
	"github.com/campuskit/authcore/password"
	"github.com/campuskit/authcore/token"
)

// Builder defines a public type used by authcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  AccountStore
	logger zerolog.Logger
	clock  func() time.Time

	hasLogger bool
	built     bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
		clock:  time.Now,
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAccountStore describes the withaccountstore operation and its observable behavior.
//
// WithAccountStore may return an error when input validation, dependency calls, or security checks fail.
// WithAccountStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAccountStore(store AccountStore) *Builder {
	b.store = store
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// The rate limiter uses the shared client when one is provided; otherwise
// it falls back to an in-process store scoped to this engine instance.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.hasLogger = true
	return b
}

// WithClock describes the withclock operation and its observable behavior.
//
// WithClock may return an error when input validation, dependency calls, or security checks fail.
// WithClock does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, errors.New("account store required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if !b.hasLogger {
		logger = zerolog.Nop()
	}

	if cfg.usesPlaceholderSecrets() {
		logger.Warn().Msg("signing secrets are development placeholders; set production secrets before deploying")
	}

	// -------- TOKEN CODEC --------
	codec, err := token.NewCodec(token.Config{
		AccessSecret:  cfg.Token.AccessSecret,
		RefreshSecret: cfg.Token.RefreshSecret,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
		Leeway:        cfg.Token.Leeway,
	}, b.clock)
	if err != nil {
		return nil, err
	}

	// -------- PASSWORD HASHER --------
	hasher, err := password.NewHasher(cfg.Password.Cost)
	if err != nil {
		return nil, err
	}

	// The dummy hash is verified against unknown identifiers so that
	// sign-in spends comparable time whether or not the account exists.
	dummyHash, err := hasher.Hash("dummy-" + uuid.NewString() + "!Aa1")
	if err != nil {
		return nil, err
	}

	// -------- RATE LIMITER --------
	var limiterStore rate.Store
	if b.redis != nil {
		limiterStore = rate.NewRedisStore(b.redis)
	} else {
		limiterStore = rate.NewMemoryStore(b.clock)
	}
	limiter := rate.New(limiterStore, rate.Config{
		MaxAttempts:      cfg.RateLimit.MaxAttempts,
		LockoutWindow:    cfg.RateLimit.LockoutWindow,
		EnableIPThrottle: cfg.RateLimit.EnableIPThrottle,
	})

	engine := &Engine{
		config:    cfg,
		store:     b.store,
		codec:     codec,
		hasher:    hasher,
		dummyHash: dummyHash,
		limiter:   limiter,
		metrics: metrics.New(metrics.Config{
			Enabled:       cfg.Metrics.Enabled,
			EnableLatency: cfg.Metrics.EnableLatencyHistograms,
		}),
		logger: logger,
		clock:  b.clock,
	}

	b.built = true
	return engine, nil
}

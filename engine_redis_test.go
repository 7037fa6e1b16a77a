package authcore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authcore "github.com/campuskit/authcore"
	"github.com/campuskit/authcore/role"
	"github.com/campuskit/authcore/storefake"
)

// Lockout counters move to Redis when a client is supplied, so multiple
// engine instances share one lockout state.
func TestSignInLockoutSharedViaRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	clock := newTestClock()
	store := storefake.New(clock.Now)

	build := func() *authcore.Engine {
		engine, err := authcore.New().
			WithConfig(testConfig()).
			WithAccountStore(store).
			WithRedis(rdb).
			WithClock(clock.Now).
			Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return engine
	}

	first := build()
	second := build()
	ctx := context.Background()

	if _, err := first.Register(ctx, authcore.RegisterRequest{
		Identifier:     "alice@example.com",
		Password:       testPassword,
		Role:           role.Teacher,
		OrganizationID: testOrg,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Failures recorded through the first engine lock the identifier for
	// the second one too.
	for i := 0; i < 5; i++ {
		first.SignIn(ctx, "alice@example.com", "Wr0ng!Pass")
	}

	_, err := second.SignIn(ctx, "alice@example.com", testPassword)
	var limited *authcore.RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("err = %v, want RateLimitedError", err)
	}
	if limited.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want > 0", limited.RetryAfter)
	}

	// Redis expiry releases the lock.
	mr.FastForward(30*time.Minute + time.Second)

	if _, err := second.SignIn(ctx, "alice@example.com", testPassword); err != nil {
		t.Fatalf("SignIn after expiry: %v", err)
	}
}

// The limiter fails closed: when the backend is down, sign-in is rejected
// rather than skipping the lockout check.
func TestSignInFailsClosedOnLimiterOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	clock := newTestClock()
	store := storefake.New(clock.Now)

	engine, err := authcore.New().
		WithConfig(testConfig()).
		WithAccountStore(store).
		WithRedis(rdb).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := context.Background()

	if _, err := engine.Register(ctx, authcore.RegisterRequest{
		Identifier:     "alice@example.com",
		Password:       testPassword,
		Role:           role.Teacher,
		OrganizationID: testOrg,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	mr.Close()

	_, err = engine.SignIn(ctx, "alice@example.com", testPassword)
	if !errors.Is(err, authcore.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

package authcore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	authcore "github.com/campuskit/authcore"
	"github.com/campuskit/authcore/role"
	"github.com/campuskit/authcore/storefake"
)

// testClock is a controllable clock. Every Now call advances it by one
// nanosecond so two calls never observe the same instant, which keeps
// epoch comparisons deterministic even under concurrency.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Nanosecond)
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() authcore.Config {
	cfg, _ := authcore.ConfigFromEnv()
	cfg.Token.AccessSecret = []byte("test-access-secret-0123456789abcdef")
	cfg.Token.RefreshSecret = []byte("test-refresh-secret-0123456789abcdef")
	// MinCost keeps the suite fast; production cost is exercised in the
	// password package tests.
	cfg.Password.Cost = bcrypt.MinCost
	return cfg
}

type testEnv struct {
	engine *authcore.Engine
	store  *storefake.Store
	clock  *testClock
}

func newTestEnv(t *testing.T, mutate func(*authcore.Config)) *testEnv {
	t.Helper()

	clock := newTestClock()
	store := storefake.New(clock.Now)

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := authcore.New().
		WithConfig(cfg).
		WithAccountStore(store).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return &testEnv{engine: engine, store: store, clock: clock}
}

const (
	testPassword = "Str0ng!Pass"
	testOrg      = "org-acme"
)

// registerAccount creates an account in an existing organization and
// returns its session.
func (env *testEnv) registerAccount(t *testing.T, identifier string, r role.Role) *authcore.Session {
	t.Helper()

	session, err := env.engine.Register(context.Background(), authcore.RegisterRequest{
		Identifier:     identifier,
		Password:       testPassword,
		DisplayName:    "Test Account",
		Role:           r,
		OrganizationID: testOrg,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", identifier, err)
	}
	return session
}

func (env *testEnv) signIn(t *testing.T, identifier, password string) *authcore.Session {
	t.Helper()

	session, err := env.engine.SignIn(context.Background(), identifier, password)
	if err != nil {
		t.Fatalf("SignIn(%s): %v", identifier, err)
	}
	return session
}

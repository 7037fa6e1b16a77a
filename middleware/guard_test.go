package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authcore "github.com/campuskit/authcore"
	"github.com/campuskit/authcore/middleware"
	"github.com/campuskit/authcore/role"
	"github.com/campuskit/authcore/storefake"
)

func newTestEngine(t *testing.T) (*authcore.Engine, *authcore.Session) {
	t.Helper()

	cfg, err := authcore.ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	cfg.Password.Cost = 4

	engine, err := authcore.New().
		WithConfig(cfg).
		WithAccountStore(storefake.New(nil)).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	session, err := engine.Register(context.Background(), authcore.RegisterRequest{
		Identifier:     "alice@example.com",
		Password:       "Str0ng!Pass",
		Role:           role.Teacher,
		OrganizationID: "org-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	return engine, session
}

func TestRequireAuthInjectsIdentity(t *testing.T) {
	engine, session := newTestEngine(t)

	handler := middleware.RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			t.Error("identity missing from context")
		}
		if identity.AccountID != session.Identity.AccountID {
			t.Errorf("account = %q, want %q", identity.AccountID, session.Identity.AccountID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+session.Tokens.AccessToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	engine, session := newTestEngine(t)

	handler := middleware.RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := map[string]string{
		"no header":     "",
		"not bearer":    "Basic abc",
		"empty token":   "Bearer ",
		"garbage token": "Bearer not-a-token",
		"refresh token": "Bearer " + session.Tokens.RefreshToken,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	engine, session := newTestEngine(t)

	allowed := middleware.RequireRole(engine, role.Teacher, role.Principal)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
	adminOnly := middleware.RequireRole(engine, role.Admin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+session.Tokens.AccessToken)

	rec := httptest.NewRecorder()
	allowed.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("allowed status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin-only status = %d, want 403", rec.Code)
	}

	// No token at all stays 401, not 403.
	rec = httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no-token status = %d, want 401", rec.Code)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	authcore "github.com/campuskit/authcore"
	"github.com/campuskit/authcore/role"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity injected by [RequireAuth].
func IdentityFromContext(ctx context.Context) (authcore.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(authcore.Identity)
	return id, ok
}

// RequireAuth returns middleware that verifies the Authorization bearer
// token and stores the resolved identity in the request context. Requests
// without a valid access token are rejected with 401.
func RequireAuth(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.Verify(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that verifies the bearer token and then
// requires the resolved role to be one of the allowed roles. Missing or
// invalid tokens get 401; a valid identity with an unlisted role gets 403.
func RequireRole(engine *authcore.Engine, allowed ...role.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[role.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		authed := RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, ok := allowedSet[identity.Role]; !ok {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
		return authed
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

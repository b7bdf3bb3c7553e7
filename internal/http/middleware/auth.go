// Package middleware holds HTTP middleware shared by the API routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mjaros/listkeeper/internal/auth"
	"github.com/mjaros/listkeeper/internal/http/response"
)

type contextKey struct{}

var ownerKey contextKey

// OwnerFromContext returns the authenticated owner id, or "" when the
// request was not authenticated.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}

// WithOwner returns a context carrying the owner id. Exposed for tests.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// Auth authenticates requests with a Bearer API key and injects the
// resolved owner into the request context.
type Auth struct {
	authenticator *auth.Authenticator
}

// NewAuth creates the auth middleware.
func NewAuth(authenticator *auth.Authenticator) *Auth {
	return &Auth{authenticator: authenticator}
}

// Validate rejects requests without a valid API key.
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		if apiKey == "" {
			response.Unauthorized(w, "empty API key")
			return
		}

		owner, err := a.authenticator.Resolve(r.Context(), apiKey)
		if err != nil {
			response.Unauthorized(w, "invalid API key")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

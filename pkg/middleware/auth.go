// Package middleware provides the HTTP middleware stack for the storefront.
package middleware

import (
	"context"
	"net/http"

	"github.com/vanyajewels/storefront/pkg/auth"
	"github.com/vanyajewels/storefront/pkg/response"
)

// Identity is the authenticated caller attached to the request context.
// It carries exactly what downstream handlers need; the full user document
// stays in the identity store.
type Identity struct {
	ID            string
	Role          string
	EmailVerified bool
	PhoneVerified bool
}

// IdentityLoader resolves a user ID from a verified token into an Identity.
// A vanished user comes back as a 401-status error; anything else is a
// store failure.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID string) (Identity, error)
}

type identityKey struct{}

// IdentityFromCtx returns the Identity set by Auth, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity stores an Identity in ctx. Exposed for tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Auth gates a route behind the session cookie. It extracts the token from
// the authToken cookie, verifies it, re-loads the referenced user, and
// attaches the Identity to the request context. Missing cookie, bad token
// and vanished user all map to 401; a store failure while re-loading is not
// an auth problem and surfaces as 500.
func Auth(loader IdentityLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := auth.ValidateToken(cookie.Value)
			if err != nil {
				response.FromError(w, err)
				return
			}

			identity, err := loader.LoadIdentity(r.Context(), claims.UserID)
			if err != nil {
				response.FromError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

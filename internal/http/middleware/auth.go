package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/sessions"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionResolver maps an opaque token to its identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*sessions.Identity, error)
}

// RequireSession authenticates the raw session token carried in the
// Authorization header (no bearer scheme) and stores the identity in the
// request context.
func RequireSession(resolver SessionResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, sessions.ErrTokenNotFound) {
					writeError(w, http.StatusUnauthorized, "invalid or expired session token")
					return
				}
				logger.Error("session resolution failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "session service unavailable")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only ADMIN identities through. Must run after
// RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		if identity.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(ctx context.Context) (sessions.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(sessions.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the identity, used by tests.
func WithIdentity(ctx context.Context, identity sessions.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

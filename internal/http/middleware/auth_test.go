package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/sessions"
)

type fakeResolver struct {
	identities map[string]sessions.Identity
	err        error
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (*sessions.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	identity, ok := f.identities[token]
	if !ok {
		return nil, sessions.ErrTokenNotFound
	}
	return &identity, nil
}

func adminProbe(t *testing.T, resolver *fakeResolver) http.Handler {
	t.Helper()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Identity", identity.Username)
		w.WriteHeader(http.StatusOK)
	})
	return Chain(final, RequireSession(resolver, zap.NewNop()), RequireAdmin)
}

func TestAdminChain(t *testing.T) {
	resolver := &fakeResolver{identities: map[string]sessions.Identity{
		"admin-token": {UserID: 1, Username: "site_admin", Role: models.RoleAdmin},
		"user-token":  {UserID: 2, Username: "daily_user", Role: models.RoleUser},
	}}

	cases := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"unknown token", "expired-token", http.StatusUnauthorized},
		{"authenticated non-admin", "user-token", http.StatusForbidden},
		{"admin passes", "admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", tc.token)
			}
			rec := httptest.NewRecorder()

			adminProbe(t, resolver).ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus != http.StatusOK {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), "error")
			}
		})
	}
}

func TestResolverOutageAnswers503(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("redis: connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "any-token")
	rec := httptest.NewRecorder()

	adminProbe(t, resolver).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "session service unavailable")
}

func TestRequireAdminWithoutSessionAnswers401(t *testing.T) {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()

	RequireAdmin(final).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityRoundTrip(t *testing.T) {
	identity := sessions.Identity{UserID: 9, Username: "site_admin", Role: models.RoleAdmin}
	ctx := WithIdentity(context.Background(), identity)

	got, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)
}

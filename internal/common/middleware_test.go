package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareInjectsIdentity(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	token, err := issuer.GenerateToken(7, "eco1")
	require.NoError(t, err)

	var gotID int64
	var gotName string
	handler := AuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		gotName, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(7), gotID)
	assert.Equal(t, "eco1", gotName)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	handler := AuthMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Bearer", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}
}

func TestWithTestUserMatchesMiddlewareKeys(t *testing.T) {
	ctx := WithTestUser(context.Background(), 42, "eco2")

	id, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	name, ok := UsernameFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "eco2", name)

	_, ok = UserIDFromContext(context.Background())
	assert.False(t, ok)
}

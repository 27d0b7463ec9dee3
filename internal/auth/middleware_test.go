package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/user"
)

type stubResolver struct {
	user   *user.User
	claims *TokenClaims
	err    error
}

func (s stubResolver) Resolve(context.Context, string) (*user.User, *TokenClaims, error) {
	return s.user, s.claims, s.err
}

func TestRequireAuth_ErrorCodes(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{ErrMissingCredentials, http.StatusUnauthorized, httputil.CodeMissingCredentials},
		{ErrInvalidToken, http.StatusUnauthorized, httputil.CodeInvalidToken},
		{ErrExpiredToken, http.StatusUnauthorized, httputil.CodeTokenExpired},
		{ErrMalformedClaims, http.StatusUnauthorized, httputil.CodeMalformedClaims},
		{ErrUnknownUser, http.StatusUnauthorized, httputil.CodeUnknownUser},
		{ErrRevokedToken, http.StatusUnauthorized, httputil.CodeTokenRevoked},
		{errStoreDown, http.StatusInternalServerError, httputil.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			called := false
			h := NewMiddleware(stubResolver{err: tt.err}).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

			assert.False(t, called)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestRequireAuth_PutsUserInContext(t *testing.T) {
	alice := &user.User{ID: 7, Username: "alice"}
	claims := &TokenClaims{ID: "jti", Subject: "alice", UserID: 7}

	var gotUser *user.User
	var gotClaims *TokenClaims
	h := NewMiddleware(stubResolver{user: alice, claims: claims}).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserFromContext(r.Context())
		gotClaims, _ = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Same(t, alice, gotUser)
	assert.Same(t, claims, gotClaims)
}

func TestGetUserFromContext_Empty(t *testing.T) {
	_, ok := GetUserFromContext(context.Background())
	assert.False(t, ok)
	_, ok = GetClaimsFromContext(context.Background())
	assert.False(t, ok)
}

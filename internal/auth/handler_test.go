package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/metrics"
	"github.com/redmonkez12/bookdiary-api/internal/testutil"
)

type fakeLimiter struct {
	exceeded bool
	err      error
	recorded []string
}

func (f *fakeLimiter) CheckIPRateLimitWithPurpose(_ context.Context, ip, purpose string) (bool, error) {
	return f.exceeded, f.err
}

func (f *fakeLimiter) RecordIPRequestWithPurpose(_ context.Context, ip, purpose string) error {
	f.recorded = append(f.recorded, purpose+":"+ip)
	return nil
}

type authAPI struct {
	router  http.Handler
	limiter *fakeLimiter
}

func newAuthAPI(t *testing.T) *authAPI {
	t.Helper()

	users := newMemUsers()
	tokens := newTestJWT(t)
	denylist, _ := newTestDenylist(t)
	m := metrics.New()

	service := NewService(users, fastHasher(), tokens, denylist, testutil.NoopLogger())
	limiter := &fakeLimiter{}
	handler := NewHandler(service, limiter, m)
	mw := NewMiddleware(NewResolver(tokens, users, denylist, m))

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Post("/logout", handler.Logout)
			r.Get("/me", handler.Me)
		})
	})

	return &authAPI{router: r, limiter: limiter}
}

func (a *authAPI) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeAuthResult(t *testing.T, rec *httptest.ResponseRecorder) AuthResult {
	t.Helper()
	var res AuthResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var res httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestHandler_RegisterLoginMeLogout(t *testing.T) {
	api := newAuthAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decodeAuthResult(t, rec)
	assert.Equal(t, "bearer", registered.TokenType)
	assert.Equal(t, "alice", registered.Username)

	rec = api.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw2"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httputil.CodeUsernameTaken, decodeError(t, rec).Code)

	rec = api.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidCredentials, decodeError(t, rec).Code)

	rec = api.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decodeAuthResult(t, rec)

	rec = api.do(t, http.MethodGet, "/auth/me", "", loggedIn.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "argon2id")

	rec = api.do(t, http.MethodPost, "/auth/logout", "", loggedIn.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/auth/me", "", loggedIn.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeTokenRevoked, decodeError(t, rec).Code)

	rec = api.do(t, http.MethodGet, "/auth/me", "", registered.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, "other tokens survive logout")

	assert.Equal(t, []string{"register:192.0.2.1", "register:192.0.2.1", "login:192.0.2.1", "login:192.0.2.1"}, api.limiter.recorded)
}

func TestHandler_MeWithoutToken(t *testing.T) {
	api := newAuthAPI(t)

	rec := api.do(t, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeMissingCredentials, decodeError(t, rec).Code)
}

func TestHandler_RegisterValidation(t *testing.T) {
	api := newAuthAPI(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"bad json", `{"username":`, httputil.CodeInvalidRequestBody},
		{"unknown field", `{"username":"a","password":"b","email":"x"}`, httputil.CodeInvalidRequestBody},
		{"no username", `{"password":"pw1"}`, httputil.CodeUsernameRequired},
		{"no password", `{"username":"bob"}`, httputil.CodePasswordRequired},
		{"long username", `{"username":"` + strings.Repeat("b", 51) + `","password":"pw1"}`, httputil.CodeUsernameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestHandler_RateLimited(t *testing.T) {
	api := newAuthAPI(t)
	api.limiter.exceeded = true

	rec := api.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, httputil.CodeTooManyRequests, decodeError(t, rec).Code)
	assert.Empty(t, api.limiter.recorded)
}

func TestHandler_LimiterFailureFailsOpen(t *testing.T) {
	api := newAuthAPI(t)
	api.limiter.err = errStoreDown

	rec := api.do(t, http.MethodPost, "/auth/register", `{"username":"dave","password":"pw1"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "ipv4 with port", remoteAddr: "203.0.113.9:51234", want: "203.0.113.9"},
		{name: "ipv6 with port", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "already rewritten by RealIP", remoteAddr: "198.51.100.2", want: "198.51.100.2"},
		{
			name:       "forwarding headers ignored",
			remoteAddr: "203.0.113.9:51234",
			headers: map[string]string{
				"X-Forwarded-For": "192.0.2.44, 10.0.0.1",
				"X-Real-IP":       "198.51.100.2",
			},
			want: "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestHandler_RateLimitKeyIgnoresForwardedFor(t *testing.T) {
	api := newAuthAPI(t)

	for _, xff := range []string{"192.0.2.10", "192.0.2.11", "192.0.2.12"} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"nobody","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	assert.Equal(t, []string{"login:192.0.2.1", "login:192.0.2.1", "login:192.0.2.1"}, api.limiter.recorded)
}

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/redmonkez12/bookdiary-api/internal/httputil"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
	"github.com/redmonkez12/bookdiary-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey   ContextKey = "user"
	ClaimsContextKey ContextKey = "token_claims"
)

// IdentityResolver is satisfied by *Resolver.
type IdentityResolver interface {
	Resolve(ctx context.Context, header string) (*user.User, *TokenClaims, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	resolver IdentityResolver
}

func NewMiddleware(resolver IdentityResolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// RequireAuth resolves the bearer token and stores the user and claims in
// the request context. Any failure ends the request.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		u, claims, err := m.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			RespondAuthError(w, logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, u)
		ctx = context.WithValue(ctx, ClaimsContextKey, claims)
		ctx = logging.WithLogger(ctx, logger.WithFields(map[string]any{"user_id": u.ID}))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RespondAuthError writes the 401 (or 500) matching a resolver error.
func RespondAuthError(w http.ResponseWriter, logger *logging.Logger, err error) {
	status := http.StatusUnauthorized
	var message, code string

	switch {
	case errors.Is(err, ErrMissingCredentials):
		message, code = "missing bearer token", httputil.CodeMissingCredentials
	case errors.Is(err, ErrExpiredToken):
		message, code = "token has expired", httputil.CodeTokenExpired
	case errors.Is(err, ErrInvalidToken):
		message, code = "invalid token", httputil.CodeInvalidToken
	case errors.Is(err, ErrMalformedClaims):
		message, code = "invalid token claims", httputil.CodeMalformedClaims
	case errors.Is(err, ErrRevokedToken):
		message, code = "token has been revoked", httputil.CodeTokenRevoked
	case errors.Is(err, ErrUnknownUser):
		message, code = "user not found", httputil.CodeUnknownUser
	default:
		logger.Error("authentication failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to authenticate", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Warn("authentication failed", "code", code)
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	httputil.RespondErrorWithCode(w, message, code, status)
}

// GetUserFromContext returns the user placed by RequireAuth.
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok
}

func GetClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*TokenClaims)
	return claims, ok
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redmonkez12/bookdiary-api/internal/metrics"
	"github.com/redmonkez12/bookdiary-api/internal/user"
)

// UserLookup is the part of the user store the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Resolver turns an Authorization header into the live user it names.
// It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	tokens   TokenService
	users    UserLookup
	denylist Denylist
	metrics  *metrics.Metrics
}

// NewResolver builds a Resolver. denylist and m may be nil.
func NewResolver(tokens TokenService, users UserLookup, denylist Denylist, m *metrics.Metrics) *Resolver {
	return &Resolver{
		tokens:   tokens,
		users:    users,
		denylist: denylist,
		metrics:  m,
	}
}

// Resolve validates header and loads the user it carries.
func (r *Resolver) Resolve(ctx context.Context, header string) (*user.User, *TokenClaims, error) {
	u, claims, err := r.resolve(ctx, header)
	r.metrics.ObserveResolution(resolutionResult(err))
	return u, claims, err
}

func (r *Resolver) resolve(ctx context.Context, header string) (*user.User, *TokenClaims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, nil, ErrMissingCredentials
	}

	claims, err := r.tokens.VerifyToken(token)
	if err != nil {
		return nil, nil, err
	}

	if r.denylist != nil {
		revoked, err := r.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, nil, ErrRevokedToken
		}
	}

	u, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, fmt.Errorf("failed to load token user: %w", err)
	}

	return u, claims, nil
}

// bearerToken extracts the credential from "Bearer <token>". The scheme
// name is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}

	return token, true
}

func resolutionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrInvalidToken):
		return "invalid"
	case errors.Is(err, ErrMalformedClaims):
		return "malformed_claims"
	case errors.Is(err, ErrRevokedToken):
		return "revoked"
	case errors.Is(err, ErrUnknownUser):
		return "unknown_user"
	default:
		return "error"
	}
}

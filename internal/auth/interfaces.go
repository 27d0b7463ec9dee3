package auth

import (
	"context"
	"time"
)

// TokenClaims represents the verified identity carried by an access token.
type TokenClaims struct {
	ID        string    `json:"jti"`
	Subject   string    `json:"sub"` // username at issue time
	UserID    int64     `json:"user_id"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
//
// VerifyToken checks integrity before expiry and returns ErrInvalidToken,
// ErrExpiredToken or ErrMalformedClaims; it never returns claims it could not
// authenticate.
type TokenService interface {
	CreateToken(userID int64, username string) (string, *TokenClaims, error)
	VerifyToken(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// Denylist records tokens revoked before their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

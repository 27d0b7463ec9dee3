package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minJWTSecretLen = 32

// jwtClaims is the wire form. UserID is a pointer so a missing claim can be
// told apart from zero.
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID *int64 `json:"user_id,omitempty"`
}

// JWTService issues HS256-signed JWTs.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret []byte, ttl time.Duration) (*JWTService, error) {
	if len(secret) < minJWTSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", minJWTSecretLen, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}

	return &JWTService{secret: secret, ttl: ttl, now: time.Now}, nil
}

func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// CreateToken signs {sub, user_id, iat, exp, jti}.
func (s *JWTService) CreateToken(userID int64, username string) (string, *TokenClaims, error) {
	now := s.now().Truncate(time.Second)
	claims := &TokenClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		UserID: &userID,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claims, nil
}

// VerifyToken validates signature, then expiry, then required claims.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	wire := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, wire,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, ErrMalformedClaims
		}
		return nil, ErrInvalidToken
	}

	if wire.ID == "" || wire.Subject == "" || wire.UserID == nil || *wire.UserID <= 0 {
		return nil, ErrMalformedClaims
	}

	claims := &TokenClaims{
		ID:        wire.ID,
		Subject:   wire.Subject,
		UserID:    *wire.UserID,
		ExpiresAt: wire.ExpiresAt.Time,
	}
	if wire.IssuedAt != nil {
		claims.IssuedAt = wire.IssuedAt.Time
	}

	return claims, nil
}

package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration
	now          func() time.Time
}

func NewPasetoService(symmetricKey []byte, ttl time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

func (s *PasetoService) TTL() time.Duration {
	return s.ttl
}

// CreateToken encrypts {sub, user_id, iat, exp, jti} into a v4.local token.
func (s *PasetoService) CreateToken(userID int64, username string) (string, *TokenClaims, error) {
	now := s.now().Truncate(time.Second)
	claims := &TokenClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := paseto.NewToken()
	token.SetJti(claims.ID)
	token.SetSubject(claims.Subject)
	token.SetIssuedAt(claims.IssuedAt)
	token.SetExpiration(claims.ExpiresAt)
	if err := token.Set("user_id", userID); err != nil {
		return "", nil, fmt.Errorf("failed to set user_id claim: %w", err)
	}

	return token.V4Encrypt(s.symmetricKey, nil), claims, nil
}

// VerifyToken decrypts and authenticates the token, then checks expiry
// against the service clock.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrMalformedClaims
	}
	if !s.now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	subject, err := token.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrMalformedClaims
	}

	var userID int64
	if err := token.Get("user_id", &userID); err != nil || userID <= 0 {
		return nil, ErrMalformedClaims
	}

	jti, err := token.GetJti()
	if err != nil || jti == "" {
		return nil, ErrMalformedClaims
	}

	claims := &TokenClaims{
		ID:        jti,
		Subject:   subject,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if issuedAt, err := token.GetIssuedAt(); err == nil {
		claims.IssuedAt = issuedAt
	}

	return claims, nil
}

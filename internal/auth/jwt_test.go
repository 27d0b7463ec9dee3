package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService([]byte("short"), time.Minute)
	assert.Error(t, err)

	_, err = NewJWTService(testSecret, 0)
	assert.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT(t)

	token, issued, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))
	assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := newTestJWT(t)

	_, a, err := svc.CreateToken(1, "alice")
	require.NoError(t, err)
	_, b, err := svc.CreateToken(1, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestJWTService_SignatureBitFlip(t *testing.T) {
	svc := newTestJWT(t)

	token, _, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)

	dot := strings.LastIndex(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(token[dot+1:])
	require.NoError(t, err)

	for i := range sig {
		for _, bit := range []byte{0x01, 0x80} {
			flipped := append([]byte(nil), sig...)
			flipped[i] ^= bit
			tampered := token[:dot+1] + base64.RawURLEncoding.EncodeToString(flipped)

			_, err := svc.VerifyToken(tampered)
			require.ErrorIs(t, err, ErrInvalidToken, "byte %d bit %#x", i, bit)
		}
	}
}

func TestJWTService_PayloadTamper(t *testing.T) {
	svc := newTestJWT(t)

	token, _, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	forged := strings.Replace(string(payload), `"user_id":42`, `"user_id":1`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = svc.VerifyToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	svc := newTestJWT(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)
	svc.now = time.Now

	other, err := NewJWTService([]byte(strings.Repeat("o", 32)), time.Minute)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ClaimsAndAlgorithms(t *testing.T) {
	svc := newTestJWT(t)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))
	uid := int64(7)

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "garbage",
			token:   "not.a.token",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty",
			token:   "",
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user_id",
			token: sign(jwt.SigningMethodHS256, testSecret, jwtClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp},
			}),
			wantErr: ErrMalformedClaims,
		},
		{
			name: "missing subject",
			token: sign(jwt.SigningMethodHS256, testSecret, jwtClaims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
				UserID:           &uid,
			}),
			wantErr: ErrMalformedClaims,
		},
		{
			name: "missing exp",
			token: sign(jwt.SigningMethodHS256, testSecret, jwtClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
				UserID:           &uid,
			}),
			wantErr: ErrMalformedClaims,
		},
		{
			name: "missing jti",
			token: sign(jwt.SigningMethodHS256, testSecret, jwtClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp},
				UserID:           &uid,
			}),
			wantErr: ErrMalformedClaims,
		},
		{
			name: "hs512 rejected",
			token: sign(jwt.SigningMethodHS512, testSecret, jwtClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp},
				UserID:           &uid,
			}),
			wantErr: ErrInvalidToken,
		},
		{
			name: "alg none rejected",
			token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwtClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp},
				UserID:           &uid,
			}),
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.VerifyToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

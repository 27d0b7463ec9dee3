package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPasetoKey = []byte(strings.Repeat("k", 32))

func newTestPaseto(t *testing.T) *PasetoService {
	t.Helper()
	svc, err := NewPasetoService(testPasetoKey, 30*time.Minute)
	require.NoError(t, err)
	return svc
}

func TestNewPasetoService_KeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("short"), time.Minute)
	assert.Error(t, err)
}

func TestPasetoService_RoundTrip(t *testing.T) {
	svc := newTestPaseto(t)

	token, issued, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestPasetoService_BitFlip(t *testing.T) {
	svc := newTestPaseto(t)

	token, _, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)

	const prefix = "v4.local."
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, prefix))
	require.NoError(t, err)

	// nonce, ciphertext and the trailing authentication tag
	for _, i := range []int{0, 31, 32, len(raw) / 2, len(raw) - 32, len(raw) - 1} {
		flipped := append([]byte(nil), raw...)
		flipped[i] ^= 0x01

		_, err := svc.VerifyToken(prefix + base64.RawURLEncoding.EncodeToString(flipped))
		require.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestPasetoService_WrongKey(t *testing.T) {
	token, _, err := newTestPaseto(t).CreateToken(42, "alice")
	require.NoError(t, err)

	other, err := NewPasetoService([]byte(strings.Repeat("o", 32)), time.Minute)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_Expired(t *testing.T) {
	svc := newTestPaseto(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.CreateToken(42, "alice")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasetoService_MissingClaims(t *testing.T) {
	svc := newTestPaseto(t)
	key, err := paseto.V4SymmetricKeyFromBytes(testPasetoKey)
	require.NoError(t, err)

	noUserID := paseto.NewToken()
	noUserID.SetSubject("alice")
	noUserID.SetExpiration(time.Now().Add(time.Hour))

	noSubject := paseto.NewToken()
	noSubject.SetExpiration(time.Now().Add(time.Hour))
	require.NoError(t, noSubject.Set("user_id", 7))

	noExpiry := paseto.NewToken()
	noExpiry.SetSubject("alice")
	require.NoError(t, noExpiry.Set("user_id", 7))

	noJti := paseto.NewToken()
	noJti.SetSubject("alice")
	noJti.SetExpiration(time.Now().Add(time.Hour))
	require.NoError(t, noJti.Set("user_id", 7))

	for name, tok := range map[string]paseto.Token{
		"user_id": noUserID,
		"subject": noSubject,
		"expiry":  noExpiry,
		"jti":     noJti,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(tok.V4Encrypt(key, nil))
			assert.ErrorIs(t, err, ErrMalformedClaims)
		})
	}
}

func TestPasetoService_Garbage(t *testing.T) {
	_, err := newTestPaseto(t).VerifyToken("v4.local.AAAA")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestPaseto(t).VerifyToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package auth

import (
	"testing"
	"time"

	"agahi-backend/internal/config"
	"agahi-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(secret string, expiry time.Duration) *JWTManager {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret, Expiry: expiry}}
	return NewJWTManager(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newManager("secret", time.Hour)
	token, err := m.GenerateToken(&models.User{ID: "u1", Phone: "09120000002"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "09120000002", claims.Phone)
}

func TestTokenRejected(t *testing.T) {
	m := newManager("secret", time.Hour)
	token, err := m.GenerateToken(&models.User{ID: "u1", Phone: "09120000002"})
	require.NoError(t, err)

	_, err = newManager("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	expired, err := newManager("secret", -time.Minute).GenerateToken(&models.User{ID: "u1", Phone: "09120000002"})
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	assert.Error(t, err)

	noPhone, err := m.GenerateToken(&models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = m.ValidateToken(noPhone)
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1", Phone: "09120000002"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(none)
	assert.Error(t, err)
}

func TestCodes(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.True(t, IsValidCode(code), code)
	}
	assert.False(t, IsValidCode("12345"))
	assert.False(t, IsValidCode("12345a"))

	hash, err := HashCode("123456")
	require.NoError(t, err)
	assert.True(t, CheckCode("123456", hash))
	assert.False(t, CheckCode("654321", hash))
}

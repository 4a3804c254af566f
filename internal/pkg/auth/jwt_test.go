package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pharmacy-checkout/internal/config"
)

func testManager() *JWTManager {
	return NewJWTManager(&config.Config{
		App: config.AppConfig{Name: "pharmacy-checkout"},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry: time.Hour,
		},
	})
}

func TestJWT_RoundTrip(t *testing.T) {
	m := testManager()

	token, err := m.GenerateAccessToken("support-1", true)
	require.NoError(t, err)

	claims, err := m.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "support-1", claims.Operator)
	assert.Equal(t, "operator:support-1", claims.Subject)
	assert.Equal(t, "pharmacy-checkout", claims.Issuer)
}

func TestJWT_NonAdminRejected(t *testing.T) {
	m := testManager()

	token, err := m.GenerateAccessToken("viewer", false)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	require.NoError(t, err)
	_, err = m.ValidateAdminToken(token)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestJWT_Expired(t *testing.T) {
	m := testManager()
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken("support-1", true)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_WrongSecretAndMethod(t *testing.T) {
	m := testManager()
	other := testManager()
	other.secret = []byte("another-secret-another-secret-000")

	token, err := other.GenerateAccessToken("support-1", true)
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Operator: "x", IsAdmin: true, TokenType: "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, 0)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager(t *testing.T) {
	tm := newTestTokenManager(t)
	assert.Equal(t, DefaultTokenLifetime, tm.Lifetime())

	tm, err := NewTokenManager(testSecret, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, tm.Lifetime())

	_, err = NewTokenManager("", time.Minute)
	assert.Error(t, err)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)
	issuedAt := time.Now()

	token, expiresAt, err := tm.Issue(7, "a@corp.com")
	require.NoError(t, err)
	assert.WithinDuration(t, issuedAt.Add(DefaultTokenLifetime), expiresAt, 2*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "a@corp.com", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := newTestTokenManager(t)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.Issue(7, "a@corp.com")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := newTestTokenManager(t).Issue(7, "a@corp.com")
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret", 0)
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsMalformed(t *testing.T) {
	tm := newTestTokenManager(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Parse(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestTokenManager_RejectsUnsignedToken(t *testing.T) {
	claims := Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@corp.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenManager(t).Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsMissingClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
	}{
		{
			name: "no subject",
			claims: Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}},
		},
		{
			name: "no uid",
			claims: Claims{RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "a@corp.com",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}},
		},
		{
			name: "no expiry",
			claims: Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
				Subject: "a@corp.com",
			}},
		},
	}

	tm := newTestTokenManager(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = tm.Parse(token)
			assert.Error(t, err)
		})
	}
}

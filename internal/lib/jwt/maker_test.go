package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		userID   int64
		username string
	}{
		{name: "regular user", userID: 1, username: "operador"},
		{name: "username with dots", userID: 42, username: "joao.silva"},
		{name: "username with numbers", userID: 1000, username: "tecnico123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, issued, err := maker.GenerateToken(tt.userID, tt.username)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.NotEmpty(t, issued.ID)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, issued.ID, claims.ID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 2*time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, 2*time.Second)
		})
	}
}

func TestJWTMaker_UniqueTokenIDs(t *testing.T) {
	maker := NewJWTMaker("secret", time.Minute)

	_, first, err := maker.GenerateToken(1, "user")
	require.NoError(t, err)
	_, second, err := maker.GenerateToken(1, "user")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	validToken, _, err := maker.GenerateToken(1, "testuser")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: createExpiredToken(t, secretKey)},
		{name: "wrong secret key", token: createTokenWithWrongSecret(t)},
		{name: "tampered token", token: validToken + "tampered"},
		{name: "none algorithm", token: createUnsignedToken(t)},
		{name: "token without session id", token: createTokenWithoutID(t, secretKey)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", 15*time.Minute)
	maker2 := NewJWTMaker("different_secret_key", 15*time.Minute)

	token, _, err := maker1.GenerateToken(1, "testuser")
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func createExpiredToken(t *testing.T, secretKey string) string {
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, _, err := maker.GenerateToken(1, "testuser")
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := NewJWTMaker("wrong_secret_key", 15*time.Minute)
	token, _, err := wrongMaker.GenerateToken(1, "testuser")
	require.NoError(t, err)
	return token
}

func createUnsignedToken(t *testing.T) string {
	claims := CustomClaims{
		UserID:   1,
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}

func createTokenWithoutID(t *testing.T, secretKey string) string {
	claims := CustomClaims{
		UserID:   1,
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	require.NoError(t, err)
	return token
}

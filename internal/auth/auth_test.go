package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestHashPassword(t *testing.T) {
	hash1, err := HashPassword("samePassword")
	require.NoError(t, err)
	hash2, err := HashPassword("samePassword")
	require.NoError(t, err)

	assert.NotEqual(t, "samePassword", hash1)
	assert.NotEqual(t, hash1, hash2, "bcrypt salts every hash")
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("correctPassword")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "correctPassword"))
	assert.False(t, CheckPassword(hashed, "wrongPassword"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestGenerateTokens(t *testing.T) {
	t.Run("claims round trip", func(t *testing.T) {
		access, refresh, err := GenerateTokens(42, "test@example.com", RoleAdmin, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.Equal(t, RoleAdmin, claims.Role)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
		assert.Equal(t, jwtIssuer, claims.Issuer)

		refreshClaims, err := ValidateToken(refresh, testSecret)
		require.NoError(t, err)
		assert.Equal(t, tokenTypeRefresh, refreshClaims.TokenType)
		assert.True(t, refreshClaims.ExpiresAt.After(claims.ExpiresAt.Time))
	})

	t.Run("empty secret", func(t *testing.T) {
		_, _, err := GenerateTokens(1, "user@example.com", RoleUser, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})
}

func TestValidateToken(t *testing.T) {
	access, _, err := GenerateTokens(1, "user@example.com", RoleUser, testSecret)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ValidateToken(access, "another-secret")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := ValidateToken(access, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := signToken(1, "user@example.com", RoleUser, tokenTypeAccess, testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = ValidateToken(expired, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := &Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateToken(token, testSecret)
		assert.Error(t, err)
	})
}

func TestRefresh(t *testing.T) {
	access, refresh, err := GenerateTokens(7, "user@example.com", RoleAdmin, testSecret)
	require.NoError(t, err)

	newAccess, claims, err := Refresh(refresh, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	parsed, err := ValidateToken(newAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeAccess, parsed.TokenType)
	assert.Equal(t, RoleAdmin, parsed.Role)

	_, _, err = Refresh(access, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

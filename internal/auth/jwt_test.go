package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iti-tech/taskboard-api/internal/auth"
	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-signing"

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "https://id.ititech.com.br",
		Audience:  "taskboard-api",
	}
}

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"name":  "Ana Silva",
		"email": "ana@ititech.com.br",
		"iss":   "https://id.ititech.com.br",
		"aud":   "taskboard-api",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestJWTValidator_ValidateToken(t *testing.T) {
	validator := auth.NewJWTValidator(testAuthConfig())

	t.Run("valid token", func(t *testing.T) {
		token := signTestToken(t, testSecret, validClaims())

		claims, err := validator.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "Ana Silva", claims.Name)
		assert.Equal(t, "ana@ititech.com.br", claims.Email)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signTestToken(t, "other-secret", validClaims())

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		token := signTestToken(t, testSecret, claims)

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims["iss"] = "https://evil.example.com"
		token := signTestToken(t, testSecret, claims)

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := validClaims()
		claims["aud"] = "other-api"
		token := signTestToken(t, testSecret, claims)

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing email claim", func(t *testing.T) {
		claims := validClaims()
		delete(claims, "email")
		token := signTestToken(t, testSecret, claims)

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects unexpected signing method", func(t *testing.T) {
		// alg=none style tokens must never validate
		token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = validator.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := validator.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("issuer and audience optional when unconfigured", func(t *testing.T) {
		relaxed := auth.NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})
		claims := jwt.MapClaims{
			"email": "ana@ititech.com.br",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}
		token := signTestToken(t, testSecret, claims)

		parsed, err := relaxed.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "ana@ititech.com.br", parsed.Email)
	})
}

package handler

import (
	"testing"
	"time"

	"irs-backend/internal/app/config"
	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/role"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHashString(t *testing.T) {
	assert.Equal(t, "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8", generateHashString("password"))
	// Хеш детерминирован
	assert.Equal(t, generateHashString("s3cret"), generateHashString("s3cret"))
	assert.NotEqual(t, generateHashString("a"), generateHashString("b"))
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	h := &AuthHandler{
		Config: &config.Config{
			JWT: config.JWTConfig{
				Token:         "test-secret",
				ExpiresIn:     time.Hour,
				SigningMethod: jwt.SigningMethodHS256,
			},
		},
	}

	tokenString, err := h.generateToken(&ds.User{ID: 7, Role: int(role.Staff)})
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*ds.JWTClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, role.Staff, claims.Role)
	assert.Equal(t, "irs-portal", claims.Issuer)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

package utils

import (
	"testing"

	"clinic-backoffice/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		Server: config.ServerConfig{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
		},
	}
	m.Run()
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("cashier123")
	require.NoError(t, err)
	assert.NotEqual(t, "cashier123", hash)

	assert.True(t, CheckPasswordHash("cashier123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "cashier")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "cashier", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(7, "admin")
	require.NoError(t, err)

	config.AppConfig.Server.JWTSecret = "rotated"
	defer func() { config.AppConfig.Server.JWTSecret = "test-secret" }()

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

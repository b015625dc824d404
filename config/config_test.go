package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DB_URL", "postgres://localhost:5432/auth")
	t.Setenv("TOKEN_SECRET", "super-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/auth", cfg.DBURL)
	assert.Equal(t, "super-secret", cfg.TokenSecret)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 30, cfg.AccessExpiryMin)
	assert.Equal(t, 60, cfg.RefreshExpiryMin)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 15, cfg.AccessExpiryMin)
	assert.Equal(t, 120, cfg.RefreshExpiryMin)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Run("missing DB_URL", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("TOKEN_SECRET", "super-secret")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing TOKEN_SECRET", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost:5432/auth")
		t.Setenv("TOKEN_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_InvalidExpiry(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_EXPIRY", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

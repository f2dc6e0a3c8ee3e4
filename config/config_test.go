package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_USER", "conduit")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "conduit")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.MaxSize)
	assert.Equal(t, "conduit", cfg.DB.User)
	assert.Equal(t, 31*24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_POOL_SIZE", "25")
	t.Setenv("JWT_TOKEN_DURATION", "15m")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 25, cfg.DB.MaxSize)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfigCollectsAllErrors(t *testing.T) {
	// Only one required variable present: the error must name the other
	// missing ones and the malformed values, all at once.
	t.Setenv("DB_USER", "conduit")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("JWT_TOKEN_DURATION", "31days")

	_, err := LoadConfig()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "JWT_TOKEN_DURATION")
}

func TestLoadConfigRejectsNonPositivePool(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_POOL_SIZE", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_POOL_SIZE")
}

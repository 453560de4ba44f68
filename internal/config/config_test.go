package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("IS_PROD", "")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("RATE_LIMIT", "0.5")
	t.Setenv("RATE_BURST", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
}

func TestLoadConfig_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("IS_PROD", "true")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

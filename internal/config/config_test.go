package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("ANALYTICS_CACHE_MB", "64")
	t.Setenv("LOGIN_RATE_LIMIT_PER_MIN", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example.com/1")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.True(t, cfg.Log.FormatJSON)
	assert.Equal(t, 64, cfg.Cache.SizeMB)
	assert.Equal(t, 3, cfg.LoginRateLimitPerMin)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.SentryEnabled())
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_REFRESH_EXPIRY", "forever")
	t.Setenv("LOG_TO_STDOUT", "maybe")
	t.Setenv("ANALYTICS_CACHE_MB", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.True(t, cfg.Log.ToStdout)
	assert.Equal(t, 16, cfg.Cache.SizeMB)
}

func TestLoad_MissingSecretPanics(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dealdesk.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 100.0, cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SeedDemo)
	assert.NotEmpty(t, cfg.Warnings, "missing JWT_SECRET should warn")
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/x.sqlite")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.sqlite", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedDemo)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_InvalidTTL(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "bogus")
	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_ProductionGuards(t *testing.T) {
	t.Setenv("ENV", "production")

	_, err := LoadFromEnv()
	require.Error(t, err, "missing JWT_SECRET is fatal in production")

	t.Setenv("JWT_SECRET", "supersecret")
	_, err = LoadFromEnv()
	require.Error(t, err, "CORS wildcard is fatal in production")

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.OrderLockTTL)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=marketplace")
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	t.Setenv("POSTGRES_PORT", "abc")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_PORT must be number")

	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("JWT_TTL", "forever")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_TTL must be duration")
}

func TestPostgresDSN_PrefersDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://u:p@db:5432/x"}
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.PostgresDSN())
}

func TestLoad_Otel(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("OTEL_ENABLED", "on")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, 0.5, cfg.OtelSampleRatio)
	assert.Equal(t, "marketplace", cfg.ServiceName)

	t.Setenv("OTEL_SAMPLER_RATIO", "2")
	_, err = Load()
	assert.EqualError(t, err, "OTEL_SAMPLER_RATIO must be between 0 and 1")

	t.Setenv("OTEL_SAMPLER_RATIO", "")
	t.Setenv("OTEL_ENABLED", "maybe")
	_, err = Load()
	assert.EqualError(t, err, "OTEL_ENABLED must be bool")
}

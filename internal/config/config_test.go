package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	require.Equal(t, "econexion-media", cfg.Storage.BucketMedia)
	require.Equal(t, 24*time.Hour, cfg.Security.JWTTTL)
	require.Equal(t, "econexion:offers", cfg.Events.Stream)
	require.Equal(t, "econexion-workers", cfg.Events.Group)
	require.Equal(t, time.Minute, cfg.Events.ClaimInterval)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ECONEXION_ENVIRONMENT", "production")
	t.Setenv("ECONEXION_HTTP_PORT", "9090")
	t.Setenv("ECONEXION_REDIS_ADDR", "redis:6379")
	t.Setenv("ECONEXION_SECURITY_JWTTTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, 9090, cfg.HTTP.Port)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, time.Hour, cfg.Security.JWTTTL)
}

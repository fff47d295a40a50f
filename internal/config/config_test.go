package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "helpdesk-service", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.False(t, cfg.Lifecycle.StrictTransitions)
	require.Equal(t, 200, cfg.Lifecycle.MaxPageSize)
	require.Equal(t, "helpdesk:ticket-events", cfg.Notification.RedisChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LIFECYCLE_STRICT_TRANSITIONS", "true")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.App.Port)
	require.True(t, cfg.Lifecycle.StrictTransitions)
	require.EqualValues(t, 25, cfg.Postgres.MaxConns)
	require.Equal(t, "5s", cfg.App.RequestTimeout().String())
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	require.EqualValues(t, 10, cfg.Postgres.MaxConns)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}

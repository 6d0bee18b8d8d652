package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("KIOSK_MENU_BASE_URL", "http://localhost:5010")
	t.Setenv("KIOSK_ORDER_BASE_URL", "http://localhost:5020")
	t.Setenv("KIOSK_AUTH_TOKEN_URL", "http://localhost:5030/connect/token")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "admin-client", cfg.Auth.ClientID)
	assert.Equal(t, "admin-secret", cfg.Auth.ClientSecret)
	assert.Equal(t, "cafe.admin", cfg.Auth.RequiredScope)
	assert.Equal(t, StateDriverSQLite, cfg.State.Driver)
	assert.Equal(t, "kiosk-state.db", cfg.State.SQLitePath)
}

func TestLoadFailsWithoutBackendURLs(t *testing.T) {
	t.Setenv("KIOSK_MENU_BASE_URL", "")
	t.Setenv("KIOSK_ORDER_BASE_URL", "")
	t.Setenv("KIOSK_AUTH_TOKEN_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadValidatesStateDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("KIOSK_STATE_DRIVER", "tape")

	_, err := Load()
	require.Error(t, err)
}

func TestRedisDriverNeedsURL(t *testing.T) {
	setRequired(t)
	t.Setenv("KIOSK_STATE_DRIVER", "redis")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("KIOSK_STATE_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/0", cfg.State.RedisURL)
}

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "ALLOW_GUEST", "PROFILE_SYNC_INTERVAL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	Load()

	assert.Equal(t, "3000", AppConfig.Port)
	assert.Equal(t, "./data/fintrack.db", AppConfig.DBPath)
	assert.True(t, AppConfig.AllowGuest)
	assert.Equal(t, 6*time.Hour, AppConfig.ProfileSyncInterval)
	assert.False(t, AppConfig.GoogleEnabled())
	assert.Equal(t, slog.LevelInfo, AppConfig.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALLOW_GUEST", "false")
	t.Setenv("PROFILE_SYNC_INTERVAL", "30m")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	Load()

	assert.False(t, AppConfig.AllowGuest)
	assert.Equal(t, 30*time.Minute, AppConfig.ProfileSyncInterval)
	assert.True(t, AppConfig.GoogleEnabled())
	assert.Equal(t, slog.LevelDebug, AppConfig.SlogLevel())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ALLOW_GUEST", "maybe")
	t.Setenv("PROFILE_SYNC_INTERVAL", "-5m")

	assert.True(t, GetEnvBool("ALLOW_GUEST", true))
	assert.Equal(t, time.Hour, GetEnvDuration("PROFILE_SYNC_INTERVAL", time.Hour))
}

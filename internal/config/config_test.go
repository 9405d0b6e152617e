package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 12*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Sync.RunLockTTL)
	assert.Empty(t, cfg.Admin.Secret)
	assert.Empty(t, cfg.RateLimit.RatePerIP)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_INTERVAL", "30m")
	t.Setenv("SYNC_RUN_LOCK_TTL", "5m")
	t.Setenv("ADMIN_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_PER_IP", "100-M")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Sync.RunLockTTL)
	assert.Equal(t, "s3cret", cfg.Admin.Secret)
	assert.Equal(t, "100-M", cfg.RateLimit.RatePerIP)
}

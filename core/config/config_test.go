package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "stagesync", cfg.Database.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, 2, cfg.Sync.Workers)
	assert.Equal(t, 30, cfg.Sync.FetchTimeoutSeconds)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Sync.Workers)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

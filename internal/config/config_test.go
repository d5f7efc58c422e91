package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.NotEmpty(t, cfg.MySQL.DSN)
	assert.Empty(t, cfg.Redis.Addr, "cache is off unless configured")
	assert.Empty(t, cfg.RabbitMQ.URL, "event publishing is off unless configured")
	assert.Equal(t, "orders.placed", cfg.RabbitMQ.Queue)
	assert.EqualValues(t, 100, cfg.RateLimit.Capacity)
}

func TestLoadReadsFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: 9090\nredis:\n  addr: 127.0.0.1:6379\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 3600, cfg.Redis.CacheTTLSeconds)
}

func TestEnvOverridesFileAndDefaults(t *testing.T) {
	t.Setenv("THEOEATS_SERVER_PORT", "7070")
	t.Setenv("THEOEATS_MYSQL_DSN", "user:pw@tcp(db:3306)/eats")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "user:pw@tcp(db:3306)/eats", cfg.MySQL.DSN)
}

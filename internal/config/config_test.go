package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

storage:
  driver: redis
  codec: proto
  key_prefix: "test:"
  expiration: 30

log:
  level: debug
  file: /tmp/landlord.log

game:
  bot_think_delay: 250
  leaderboard: true
  cache_idle: 15
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "proto", cfg.Storage.Codec)
	assert.Equal(t, "test:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/landlord.log", cfg.Log.File)
	assert.True(t, cfg.Game.Leaderboard)
	assert.Equal(t, 15, cfg.Game.CacheIdle)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "json", cfg.Storage.Codec)
	assert.Equal(t, "landlord:", cfg.Storage.KeyPrefix)
	assert.Equal(t, 120, cfg.Storage.Expiration)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "Driver", content: "storage:\n  driver: etcd\n"},
		{name: "Codec", content: "storage:\n  codec: xml\n"},
		{name: "Expiration", content: "storage:\n  expiration: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestDefault(t *testing.T) {
	// 不并行：环境变量会影响结果
	cfg, err := Default()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Game.Leaderboard)
}

func TestDefault_InvalidEnv(t *testing.T) {
	// 不并行：修改了环境变量
	t.Setenv("LANDLORD_REDIS_DB", "abc")

	cfg, err := Default()
	assert.Error(t, err)
	assert.Nil(t, cfg)

	_, err = Load(writeConfig(t, "storage:\n  driver: memory\n"))
	assert.Error(t, err)
}

func TestDurationMethods(t *testing.T) {
	t.Parallel()

	storage := &StorageConfig{Expiration: 30}
	assert.Equal(t, 30*time.Minute, storage.ExpirationDuration())

	game := &GameConfig{BotThinkDelay: 250, CacheIdle: 30}
	assert.Equal(t, 250*time.Millisecond, game.BotThinkDelayDuration())
	assert.Equal(t, 30*time.Minute, game.CacheIdleDuration())
}

func TestLoadFromEnv(t *testing.T) {
	// 不并行：修改了环境变量
	t.Setenv("LANDLORD_REDIS_ADDR", "env-redis:6380")
	t.Setenv("LANDLORD_STORAGE_DRIVER", "redis")
	t.Setenv("LANDLORD_STORAGE_EXPIRATION", "15")
	t.Setenv("LANDLORD_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "redis:\n  addr: file-redis:6379\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 15, cfg.Storage.Expiration)
	assert.Equal(t, "warn", cfg.Log.Level)
}

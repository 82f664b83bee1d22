package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "db:\n  driver: sqlite\n  dsn: \"test.db\"\njwt:\n  secret: s3cret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "test.db", cfg.DB.DSN)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 8*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 100, cfg.Chat.Backlog)
	assert.False(t, cfg.Chat.RemoveOnAnyDisconnect)
	assert.Equal(t, 60*time.Second, cfg.Chat.PongWait)
	assert.Equal(t, "chat-images", cfg.MinIO.Bucket)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chat:\n  backlog: 10\n"), 0o600))
	t.Setenv("HOTEL_CHAT_BACKLOG", "25")
	t.Setenv("HOTEL_REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Chat.Backlog)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

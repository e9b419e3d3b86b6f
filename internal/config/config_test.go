package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTemp(t, `
database:
  host: db.local
  user: pos
  database: barpos
rabbitmq:
  host: mq.local
  user: guest
redis:
  host: cache.local
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 5672, cfg.Rabbit.Port)
	assert.Equal(t, "/", cfg.Rabbit.VHost)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	path := writeTemp(t, `
database:
  host: db.local
  port: 5433
  user: pos
  password: pw
  database: barpos
rabbitmq:
  host: mq.local
  user: guest
  vhost: "pos"
redis:
  host: cache.local
  db: 2
http:
  port: 8080
auth:
  session_ttl: 30m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "pos", cfg.Rabbit.VHost)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
}

func TestLoadRejectsIncomplete(t *testing.T) {
	path := writeTemp(t, `
database:
  host: db.local
rabbitmq:
  host: mq.local
  user: guest
redis:
  host: cache.local
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

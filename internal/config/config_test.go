package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":8000", c.Addr())
	assert.Equal(t, "localhost", c.Database.Host)
	assert.Equal(t, 7*24*time.Hour, c.TokenTTL())
	assert.Equal(t, 15*time.Second, c.ServiceTimeout())
	assert.False(t, c.Cache.Enabled)
	assert.Nil(t, c.NewRedisClient())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
auth:
  secret: file-secret
  token_ttl: 2h
cache:
  enabled: true
  host: cache.internal
services:
  foodchat_url: http://chat.internal:8001
  timeout_sec: 30
`), 0o644))

	c := Load(path)
	assert.Equal(t, ":9090", c.Addr())
	assert.Equal(t, "file-secret", c.Auth.Secret)
	assert.Equal(t, 2*time.Hour, c.TokenTTL())
	assert.Equal(t, 30*time.Second, c.ServiceTimeout())
	assert.Equal(t, "http://chat.internal:8001", c.Services.FoodChatURL)
	assert.True(t, c.Cache.Enabled)
	require.NotNil(t, c.NewRedisClient())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("AUTH_SECRET", "env-secret")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("FOODSCHOLAR_URL", "http://scholar.internal:8001")

	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ":7070", c.Addr())
	assert.Equal(t, "db.internal", c.Database.Host)
	assert.Equal(t, "env-secret", c.Auth.Secret)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, "http://scholar.internal:8001", c.Services.FoodScholarURL)
}

func TestTokenTTLFallsBackOnGarbage(t *testing.T) {
	c := &Config{Auth: AuthConfig{TokenTTL: "soon"}}
	assert.Equal(t, 7*24*time.Hour, c.TokenTTL())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/crypto"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/projector"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "isync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.RoleControl, cfg.Node.Role)
	assert.Equal(t, crypto.SuiteAESGCM, cfg.Sync.Cipher)
	assert.Equal(t, projector.DefaultFilter(), cfg.Filter())
	assert.Equal(t, filepath.Join(DefaultDataDir, "isync.db"), cfg.BoltPath())
	assert.Equal(t, filepath.Join(DefaultDataDir, "history.db"), cfg.HistoryPath())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
node:
  id: node-a
  role: relay
  data_dir: /var/lib/isync
sync:
  table: settings
  marker: ""
  cipher: xchacha20-poly1305
  interval: 5s
  handshake_timeout: 2s
peers:
  discovery_url: http://discovery.local/peers
  max: 5
  static:
    - http://10.0.0.2:8080
server:
  listen: 127.0.0.1:9000
  admin_secret: admin
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "node-a", cfg.Node.ID)
	assert.Equal(t, models.RoleRelay, cfg.Node.Role)
	assert.Equal(t, projector.Filter{Table: "settings", Marker: ""}, cfg.Filter())
	assert.Equal(t, crypto.SuiteXChaCha20, cfg.Sync.Cipher)
	assert.Equal(t, 5*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 2*time.Second, cfg.Sync.HandshakeTimeout)
	assert.Equal(t, []string{"http://10.0.0.2:8080"}, cfg.Peers.Static)
	assert.Equal(t, 5, cfg.Peers.Max)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, FormatJSON, cfg.Log.Format)

	// Не заданные ключи сохраняют значения по умолчанию
	assert.Equal(t, DefaultPersistInterval, cfg.Sync.PersistInterval)
	assert.Equal(t, DefaultRateLimit, cfg.Server.RateLimit)
}

func TestLoad_EmptyPathAndFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(writeConfig(t, "\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "node:\n  nickname: a\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeConfig(t, "sync:\n  interval: soon\n"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()

	err := cfg.ApplyEnv(envMap(map[string]string{
		"ISYNC_NODE_ID":       "env-node",
		"ISYNC_ROLE":          "relay",
		"ISYNC_DATA_DIR":      "/tmp/isync",
		"ISYNC_PEERS":         " http://a:1 , ,http://b:2",
		"ISYNC_SYNC_INTERVAL": "1m",
		"ISYNC_MAX_PEERS":     "7",
		"ISYNC_LOG_LEVEL":     "warn",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env-node", cfg.Node.ID)
	assert.Equal(t, models.RoleRelay, cfg.Node.Role)
	assert.Equal(t, "/tmp/isync", cfg.Node.DataDir)
	assert.Equal(t, []string{"http://a:1", "http://b:2"}, cfg.Peers.Static)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 7, cfg.Peers.Max)
	assert.Equal(t, "warn", cfg.Log.Level)
	// Не заданные переменные не меняют значения
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"ISYNC_SYNC_INTERVAL": "often",
		"ISYNC_MAX_PEERS":     "many",
		"ISYNC_RATE_LIMIT":    "1.5",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(map[string]string{key: value}))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown role", func(c *Config) { c.Node.Role = "observer" }},
		{"empty data dir", func(c *Config) { c.Node.DataDir = "" }},
		{"unknown cipher", func(c *Config) { c.Sync.Cipher = "rot13" }},
		{"dotted table", func(c *Config) { c.Sync.Table = "a.b" }},
		{"zero persist interval", func(c *Config) { c.Sync.PersistInterval = 0 }},
		{"negative interval", func(c *Config) { c.Sync.Interval = -time.Second }},
		{"negative max peers", func(c *Config) { c.Peers.Max = -1 }},
		{"bad static peer", func(c *Config) { c.Peers.Static = []string{"not a url"} }},
		{"bad discovery url", func(c *Config) { c.Peers.DiscoveryURL = "ftp://peers" }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -5 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Node.Role = "observer"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node.role")
	assert.Contains(t, err.Error(), "log.format")
}

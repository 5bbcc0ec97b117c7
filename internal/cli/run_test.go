package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/config"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/node"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, role models.Role) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Node.Role = role
	cfg.Node.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Server.Listen = "127.0.0.1:0"
	cfg.Sync.PersistInterval = 50 * time.Millisecond
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunOptions_LoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen: \":1111\"\nnode:\n  role: relay\n"), 0o600))

	env := func(key string) (string, bool) {
		if key == "ISYNC_LISTEN" {
			return ":2222", true
		}
		return "", false
	}

	opts := &RunOptions{RootOptions: &RootOptions{ConfigPath: path, Lookup: env}}

	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":2222", cfg.Server.Listen, "env overrides file")
	assert.Equal(t, models.RoleRelay, cfg.Node.Role)

	opts.Listen = ":3333"
	opts.Role = "control"
	opts.Peers = []string{"http://10.0.0.9:8080"}
	cfg, err = opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":3333", cfg.Server.Listen, "flag overrides env")
	assert.Equal(t, models.RoleControl, cfg.Node.Role)
	assert.Equal(t, []string{"http://10.0.0.9:8080"}, cfg.Peers.Static)

	opts.Role = "observer"
	_, err = opts.loadConfig()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunNode_ControlWithoutToken(t *testing.T) {
	var noEnv config.LookupFunc = func(string) (string, bool) { return "", false }
	opts := &RunOptions{RootOptions: &RootOptions{
		Lookup: noEnv,
		IO:     bufferIO(nil),
	}}
	opts.DataDir = t.TempDir()

	err := runNode(context.Background(), opts)
	assert.ErrorIs(t, err, config.ErrTokenRequired)
}

func TestApp_RelayRunAndRestart(t *testing.T) {
	cfg := testConfig(t, models.RoleRelay)

	a, err := newApp(context.Background(), cfg, "", discardLogger())
	require.NoError(t, err)
	firstID := a.node.NodeID()
	assert.NotEmpty(t, firstID)
	assert.Equal(t, models.RoleRelay, a.node.Role())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))
	a.Close()

	assert.FileExists(t, cfg.BoltPath())
	assert.FileExists(t, cfg.HistoryPath())

	// Идентификатор узла сохраняется между запусками
	b, err := newApp(context.Background(), cfg, "", discardLogger())
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, firstID, b.node.NodeID())
}

func TestApp_Control(t *testing.T) {
	cfg := testConfig(t, models.RoleControl)
	cfg.Node.ID = "control-1"

	// Без токена control узел не собирается, хранилища закрываются
	_, err := newApp(context.Background(), cfg, "", discardLogger())
	require.ErrorIs(t, err, node.ErrInvalidOptions)

	a, err := newApp(context.Background(), cfg, "shared-token-123", discardLogger())
	require.NoError(t, err)
	defer a.Close()

	status := a.node.Status(context.Background())
	assert.Equal(t, "control-1", status.NodeID)
	assert.True(t, status.HasToken)
	assert.NotEmpty(t, status.KeyFingerprint)
	assert.Equal(t, "aes-gcm", status.CipherSuite)
}

func TestApp_ServerListenError(t *testing.T) {
	cfg := testConfig(t, models.RoleRelay)
	cfg.Server.Listen = "256.0.0.1:-1"

	a, err := newApp(context.Background(), cfg, "", discardLogger())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, a.Run(ctx))
}

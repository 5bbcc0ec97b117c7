package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/transport"
	"github.com/iudanet/isync/pkg/api"
)

// serve поднимает websocket эндпоинт узла и возвращает его адрес
func serve(t *testing.T, tn *testNode) string {
	t.Helper()
	logger := testLogger()
	mgr := peer.NewManager(tn.Node, peer.Config{
		DefaultMode:      DefaultMode(tn.Role()),
		HandshakeTimeout: 2 * time.Second,
	}, logger)
	tn.AttachPeers(mgr)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Upgrade(w, r, logger)
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = mgr.Attach(ctx, conn)
	}))
	t.Cleanup(func() {
		mgr.Close()
		srv.Close()
	})
	return srv.URL
}

func connect(t *testing.T, tn *testNode, urls ...string) *peer.Manager {
	t.Helper()
	mgr := peer.NewManager(tn.Node, peer.Config{
		DefaultMode:      DefaultMode(tn.Role()),
		HandshakeTimeout: 2 * time.Second,
	}, testLogger(), peer.WithSavedPeers(tn.history))
	tn.AttachPeers(mgr)
	t.Cleanup(mgr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Equal(t, len(urls), mgr.ConnectAll(ctx, urls))
	return mgr
}

func hasField(tn *testNode, table, id, field string, want models.Value) func() bool {
	return func() bool {
		snap, err := tn.Records(context.Background())
		if err != nil {
			return false
		}
		v, ok := snap[table][id][field]
		return ok && v.Equal(want)
	}
}

func TestNode_SyncOverWebsocket(t *testing.T) {
	ctx := context.Background()
	a := newTestNode(t, "A", models.RoleControl, testToken, 100)
	b := newTestNode(t, "B", models.RoleControl, testToken, 200)

	require.NoError(t, b.SetField(ctx, "config", "dev1", "qos", models.Number(1)))

	url := serve(t, b)
	connect(t, a, url)

	// Начальная синхронизация после рукопожатия
	assert.Eventually(t, hasField(a, "config", "dev1", "qos", models.Number(1)), 3*time.Second, 20*time.Millisecond)

	require.NoError(t, a.SetField(ctx, "config", "dev1", "topic", models.String("X")))

	resp := a.SyncNow(ctx)
	assert.Equal(t, api.SyncStatusSuccess, resp.Status)
	assert.Equal(t, 1, resp.SyncedPeers)
	assert.Equal(t, 1, resp.TotalPeers)
	assert.Equal(t, "Synced to 1 of 1 peers", resp.Message)

	assert.Eventually(t, hasField(b, "config", "dev1", "topic", models.String("X")), 3*time.Second, 20*time.Millisecond)

	status := a.Status(ctx)
	assert.Equal(t, 1, status.ConnectedPeers)
	require.NotNil(t, status.LastSyncTime)
	assert.Len(t, status.PeerURLs, 1)

	entry := lastHistory(t, a)
	assert.Equal(t, models.DirectionOut, entry.Direction)
	assert.Equal(t, models.HistoryStatusSuccess, entry.Status)
}

func TestNode_RelayChain(t *testing.T) {
	ctx := context.Background()
	a := newTestNode(t, "A", models.RoleControl, testToken, 100)
	relay := newTestNode(t, "R", models.RoleRelay, "", 100)
	b := newTestNode(t, "B", models.RoleControl, testToken, 100)

	url := serve(t, relay)
	connect(t, a, url)
	connect(t, b, url)

	require.Eventually(t, func() bool { return relay.Peers().Count() == 2 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, a.SetField(ctx, "config", "dev1", "topic", models.String("secret")))
	resp := a.SyncNow(ctx)
	require.Equal(t, api.SyncStatusSuccess, resp.Status)

	// Ретранслятор пересылает зашифрованный пакет, не расшифровывая его
	assert.Eventually(t, hasField(b, "config", "dev1", "topic", models.String("secret")), 3*time.Second, 20*time.Millisecond)
	assert.Empty(t, relay.StateData().Registers)

	_, ok := relay.field(t, "config", "dev1", "topic")
	assert.False(t, ok)
}

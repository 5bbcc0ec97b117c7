package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/node"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/server/handlers"
	"github.com/iudanet/isync/pkg/api"
)

const testAdminSecret = "admin-secret-123"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newNodeMock() *handlers.NodeServiceMock {
	return &handlers.NodeServiceMock{
		StatusFunc: func(ctx context.Context) api.StatusResponse {
			return api.StatusResponse{NodeID: "node-a", Role: "control", ConnectedTo: []string{}, PeerURLs: []string{}}
		},
		SyncNowFunc: func(ctx context.Context) api.SyncNowResponse {
			return api.SyncNowResponse{Status: api.SyncStatusSuccess, Message: "Synced to 1 of 1 peers", SyncedPeers: 1, TotalPeers: 1}
		},
		HistoryFunc: func(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
			return []*models.HistoryEntry{{ID: "h1", Direction: models.DirectionIn, Status: models.HistoryStatusSuccess}}, nil
		},
		PeerSessionsFunc: func() []api.SessionInfo {
			return []api.SessionInfo{{URL: "ws://b/api/v1/peer", NodeID: "node-b", State: "synced", Mode: api.ModeEncrypted}}
		},
		SavedPeersFunc: func(ctx context.Context) ([]models.SavedPeer, error) {
			return []models.SavedPeer{{URL: "http://b:8080", Name: "b", Mode: api.ModeEncrypted}}, nil
		},
		AddPeerFunc: func(ctx context.Context, p models.SavedPeer) (bool, error) {
			return true, nil
		},
		RecordsFunc: func(ctx context.Context) (models.Snapshot, error) {
			return models.Snapshot{"config": models.Table{"dev1": models.Record{"topic": models.String("X")}}}, nil
		},
		SetFieldFunc: func(ctx context.Context, table, recordID, field string, value models.Value) error {
			return nil
		},
		DeleteFieldFunc: func(ctx context.Context, table, recordID, field string) error {
			return nil
		},
	}
}

func newTestServer(t *testing.T, nodeSvc handlers.NodeService, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.NodeID == "" {
		cfg.NodeID = "node-a"
	}
	s, err := New(cfg, nodeSvc, nil, testLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		s.Close()
	})
	return srv
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/auth/token", "", api.TokenRequest{Secret: testAdminSecret})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[api.TokenResponse](t, resp)
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func TestServer_PublicRoutes(t *testing.T) {
	srv := newTestServer(t, newNodeMock(), Config{})

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[api.HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "node-a", health.NodeID)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/status", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[api.StatusResponse](t, resp)
	assert.Equal(t, "node-a", status.NodeID)
	assert.Equal(t, "control", status.Role)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/peer", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "no acceptor configured")
}

func TestServer_Token(t *testing.T) {
	t.Run("disabled without admin secret", func(t *testing.T) {
		srv := newTestServer(t, newNodeMock(), Config{})
		resp := do(t, http.MethodPost, srv.URL+"/api/v1/auth/token", "", api.TokenRequest{Secret: "anything"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	srv := newTestServer(t, newNodeMock(), Config{AdminSecret: testAdminSecret, TokenTTL: time.Minute})

	tests := []struct {
		body   any
		name   string
		status int
	}{
		{name: "wrong secret", body: api.TokenRequest{Secret: "nope"}, status: http.StatusUnauthorized},
		{name: "empty secret", body: api.TokenRequest{}, status: http.StatusBadRequest},
		{name: "invalid json", body: "not an object", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/auth/token", "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			errResp := decode[api.ErrorResponse](t, resp)
			assert.NotEmpty(t, errResp.Error)
		})
	}

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/auth/token", "", api.TokenRequest{Secret: testAdminSecret})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[api.TokenResponse](t, resp)
	assert.Equal(t, int64(60), tok.ExpiresIn)

	claims, err := handlers.ValidateAccessToken(handlers.JWTConfig{Secret: []byte("wrong")}, tok.AccessToken)
	assert.ErrorIs(t, err, handlers.ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestServer_AdminRoutesRequireToken(t *testing.T) {
	nodeSvc := newNodeMock()
	srv := newTestServer(t, nodeSvc, Config{AdminSecret: testAdminSecret})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/sync"},
		{http.MethodGet, "/api/v1/history"},
		{http.MethodGet, "/api/v1/peers"},
		{http.MethodPost, "/api/v1/peers"},
		{http.MethodGet, "/api/v1/records"},
		{http.MethodPut, "/api/v1/records/config/dev1/topic"},
		{http.MethodDelete, "/api/v1/records/config/dev1/topic"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp := do(t, rt.method, srv.URL+rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	assert.Empty(t, nodeSvc.SyncNowCalls())
	assert.Empty(t, nodeSvc.SetFieldCalls())
}

func TestServer_SyncAndHistory(t *testing.T) {
	nodeSvc := newNodeMock()
	srv := newTestServer(t, nodeSvc, Config{AdminSecret: testAdminSecret})
	token := login(t, srv)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/sync", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	syncResp := decode[api.SyncNowResponse](t, resp)
	assert.Equal(t, api.SyncStatusSuccess, syncResp.Status)
	assert.Equal(t, 1, syncResp.SyncedPeers)
	assert.Len(t, nodeSvc.SyncNowCalls(), 1)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/history?limit=5000", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[api.HistoryResponse](t, resp)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, "h1", history.Entries[0].ID)

	calls := nodeSvc.HistoryCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1000, calls[0].Limit, "limit is capped")

	for _, bad := range []string{"abc", "0", "-3"} {
		resp = do(t, http.MethodGet, srv.URL+"/api/v1/history?limit="+bad, token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "limit=%s", bad)
	}
}

func TestServer_Peers(t *testing.T) {
	nodeSvc := newNodeMock()
	srv := newTestServer(t, nodeSvc, Config{AdminSecret: testAdminSecret})
	token := login(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/peers", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	peers := decode[api.PeersResponse](t, resp)
	require.Len(t, peers.Connected, 1)
	assert.Equal(t, "node-b", peers.Connected[0].NodeID)
	require.Len(t, peers.Saved, 1)
	assert.Equal(t, "http://b:8080", peers.Saved[0].URL)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/peers", token, api.AddPeerRequest{URL: "http://c:8080", Name: "c", Verified: true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decode[api.AddPeerResponse](t, resp)
	assert.True(t, added.Connected)

	calls := nodeSvc.AddPeerCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "http://c:8080", calls[0].P.URL)
	assert.True(t, calls[0].P.Verified)

	nodeSvc.AddPeerFunc = func(ctx context.Context, p models.SavedPeer) (bool, error) {
		return false, fmt.Errorf("%w: bad", peer.ErrInvalidPeerURL)
	}
	resp = do(t, http.MethodPost, srv.URL+"/api/v1/peers", token, api.AddPeerRequest{URL: "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	nodeSvc.AddPeerFunc = func(ctx context.Context, p models.SavedPeer) (bool, error) {
		return false, assert.AnError
	}
	resp = do(t, http.MethodPost, srv.URL+"/api/v1/peers", token, api.AddPeerRequest{URL: "http://d"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_Records(t *testing.T) {
	nodeSvc := newNodeMock()
	srv := newTestServer(t, nodeSvc, Config{AdminSecret: testAdminSecret})
	token := login(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/records", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"config":{"dev1":{"topic":"X"}}}`, string(body))

	resp = do(t, http.MethodPut, srv.URL+"/api/v1/records/config/dev1/qos", token,
		map[string]any{"value": map[string]any{"level": 2}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	calls := nodeSvc.SetFieldCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "config", calls[0].Table)
	assert.Equal(t, "dev1", calls[0].RecordID)
	assert.Equal(t, "qos", calls[0].Field)
	assert.True(t, calls[0].Value.Equal(models.Object(map[string]models.Value{"level": models.Number(2)})))

	resp = do(t, http.MethodPut, srv.URL+"/api/v1/records/config/dev1/qos", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "value is required")

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/records/config/dev1/qos", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Len(t, nodeSvc.DeleteFieldCalls(), 1)
}

func TestServer_RecordErrors(t *testing.T) {
	tests := []struct {
		err    error
		name   string
		status int
	}{
		{name: "invalid field", err: fmt.Errorf("%w: dots", node.ErrInvalidField), status: http.StatusBadRequest},
		{name: "invalid value", err: models.ErrInvalidValue, status: http.StatusBadRequest},
		{name: "not found", err: node.ErrFieldNotFound, status: http.StatusNotFound},
		{name: "deleted", err: node.ErrFieldDeleted, status: http.StatusConflict},
		{name: "store failure", err: assert.AnError, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodeSvc := newNodeMock()
			nodeSvc.DeleteFieldFunc = func(ctx context.Context, table, recordID, field string) error {
				return tt.err
			}
			srv := newTestServer(t, nodeSvc, Config{AdminSecret: testAdminSecret})
			token := login(t, srv)

			resp := do(t, http.MethodDelete, srv.URL+"/api/v1/records/config/dev1/topic", token, nil)
			assert.Equal(t, tt.status, resp.StatusCode)

			errResp := decode[api.ErrorResponse](t, resp)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, errResp.Message, assert.AnError.Error(), "internal errors are not exposed")
			}
		})
	}
}

func TestServer_RateLimit(t *testing.T) {
	srv := newTestServer(t, newNodeMock(), Config{RateLimit: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp := do(t, http.MethodGet, srv.URL+"/api/v1/status", "", nil)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServer_Run(t *testing.T) {
	s, err := New(Config{NodeID: "node-a", Listen: "127.0.0.1:0"}, newNodeMock(), nil, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunListenError(t *testing.T) {
	s, err := New(Config{NodeID: "node-a", Listen: "256.0.0.1:-1"}, newNodeMock(), nil, testLogger())
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to serve http"))
}

package node

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/transport"
	"github.com/iudanet/isync/pkg/api"
)

// Status возвращает состояние узла: пиры, часы, счетчики, готовность шифрования
func (n *Node) Status(ctx context.Context) api.StatusResponse {
	n.mu.Lock()
	status := api.StatusResponse{
		NodeID:          n.id,
		Role:            string(n.role),
		CipherSuite:     n.codec.Suite(),
		KeyFingerprint:  n.fingerprint,
		VectorClock:     n.state.Clock(),
		RegisterCount:   n.state.Len(),
		DeletedCount:    n.state.DeletedLen(),
		SyncEnabled:     n.syncEnabled,
		HasToken:        n.fingerprint != "",
		EncryptionReady: n.codec.CanDecrypt(),
	}
	n.mu.Unlock()

	known := make(map[string]bool)
	status.ConnectedTo = make([]string, 0)
	if m := n.Peers(); m != nil {
		for _, info := range m.Infos() {
			status.ConnectedTo = append(status.ConnectedTo, info.URL)
			if !info.Inbound {
				known[info.URL] = true
			}
		}
	}
	status.ConnectedPeers = len(status.ConnectedTo)

	if saved, err := n.savedPeers(ctx); err == nil {
		for _, p := range saved {
			known[p.URL] = true
		}
	}

	status.PeerURLs = make([]string, 0, len(known))
	for u := range known {
		status.PeerURLs = append(status.PeerURLs, u)
	}
	sort.Strings(status.PeerURLs)

	if last := n.LastSync(); !last.IsZero() {
		status.LastSyncTime = &last
	}

	return status
}

// PeerSessions возвращает активные соединения с пирами
func (n *Node) PeerSessions() []api.SessionInfo {
	m := n.Peers()
	if m == nil {
		return []api.SessionInfo{}
	}
	return m.Infos()
}

// SyncNow принудительно переносит локальные изменения и отправляет состояние всем пирам
func (n *Node) SyncNow(ctx context.Context) api.SyncNowResponse {
	m := n.Peers()
	if m == nil || m.Count() == 0 {
		return api.SyncNowResponse{Status: api.SyncStatusNoPeers, Message: "No peers connected"}
	}

	total := m.Count()
	synced := m.SyncToAll(ctx)
	detail := fmt.Sprintf("Synced to %d of %d peers", synced, total)

	if synced == 0 {
		n.record(ctx, "", "", models.DirectionOut, models.HistoryStatusError, detail)
		return api.SyncNowResponse{
			Status:     api.SyncStatusError,
			Message:    detail,
			TotalPeers: total,
		}
	}

	n.mu.Lock()
	n.lastSync = time.Now()
	n.mu.Unlock()

	n.record(ctx, "", "", models.DirectionOut, models.HistoryStatusSuccess, detail)
	n.logger.Info("Forced sync finished", "synced", synced, "total", total)

	return api.SyncNowResponse{
		Status:      api.SyncStatusSuccess,
		Message:     detail,
		SyncedPeers: synced,
		TotalPeers:  total,
	}
}

// History возвращает последние записи журнала синхронизации
func (n *Node) History(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if n.history == nil {
		return []*models.HistoryEntry{}, nil
	}
	entries, err := n.history.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// SavedPeers возвращает сохраненных оператором пиров
func (n *Node) SavedPeers(ctx context.Context) ([]models.SavedPeer, error) {
	peers, err := n.savedPeers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved peers: %w", err)
	}
	return peers, nil
}

func (n *Node) savedPeers(ctx context.Context) ([]models.SavedPeer, error) {
	if n.history == nil {
		return []models.SavedPeer{}, nil
	}
	return n.history.ListPeers(ctx)
}

// AddPeer сохраняет пира и подключается к нему, если подключен менеджер.
// Пустой режим заменяется режимом по умолчанию для роли узла.
// Возвращает true, если соединение установлено.
func (n *Node) AddPeer(ctx context.Context, p models.SavedPeer) (bool, error) {
	if _, err := transport.NormalizeURL(p.URL); err != nil {
		return false, fmt.Errorf("%w: %v", peer.ErrInvalidPeerURL, err)
	}
	if p.Mode == "" {
		p.Mode = DefaultMode(n.role)
	}
	if p.Mode != api.ModeEncrypted && p.Mode != api.ModePlain {
		return false, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, p.Mode)
	}
	if p.Mode == api.ModeEncrypted && !n.codec.CanDecrypt() {
		return false, fmt.Errorf("%w: encrypted mode requires a token", ErrInvalidOptions)
	}
	if p.Name == "" {
		p.Name = p.URL
	}

	if n.history != nil {
		if err := n.history.SavePeer(ctx, &p); err != nil {
			return false, fmt.Errorf("failed to save peer: %w", err)
		}
	}

	m := n.Peers()
	if m == nil {
		return false, nil
	}
	connected := m.ConnectTargets(ctx, []peer.Target{{URL: p.URL, Mode: p.Mode}})
	return connected > 0, nil
}

// DefaultMode режим соединений по умолчанию: владелец токена шифрует,
// ретранслятор передает состояние как есть
func DefaultMode(role models.Role) string {
	if role == models.RoleControl {
		return api.ModeEncrypted
	}
	return api.ModePlain
}

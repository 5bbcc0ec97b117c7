package api

import (
	"encoding/json"
	"time"
)

// PeerInfo представляет одну запись списка discovery
type PeerInfo struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Verified bool   `json:"verified"`
}

// SessionInfo представляет активное соединение с пиром
type SessionInfo struct {
	URL     string `json:"url"`
	NodeID  string `json:"node_id"`
	State   string `json:"state"`
	Mode    string `json:"mode"`
	Inbound bool   `json:"inbound"`
}

// SavedPeer представляет пир, сохраненный оператором
type SavedPeer struct {
	AddedAt  time.Time `json:"added_at"`
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Mode     string    `json:"mode"`
	Verified bool      `json:"verified"`
}

// PeersResponse ответ со списком активных соединений и сохраненных пиров
type PeersResponse struct {
	Connected []SessionInfo `json:"connected"`
	Saved     []SavedPeer   `json:"saved"`
}

// AddPeerRequest запрос на сохранение пира и подключение к нему
type AddPeerRequest struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Mode     string `json:"mode,omitempty"` // Mode пустой - режим по роли узла
	Verified bool   `json:"verified"`
}

// StatusResponse представляет состояние узла синхронизации
type StatusResponse struct {
	LastSyncTime    *time.Time       `json:"last_sync_time"`
	VectorClock     map[string]int64 `json:"vector_clock"`
	NodeID          string           `json:"node_id"`
	Role            string           `json:"role"`
	CipherSuite     string           `json:"cipher_suite,omitempty"`
	KeyFingerprint  string           `json:"key_fingerprint,omitempty"`
	PeerURLs        []string         `json:"peer_urls"`
	ConnectedTo     []string         `json:"connected_to"`
	ConnectedPeers  int              `json:"connected_peers"`
	RegisterCount   int              `json:"register_count"`
	DeletedCount    int              `json:"deleted_count"`
	SyncEnabled     bool             `json:"sync_enabled"`
	HasToken        bool             `json:"has_token"`
	EncryptionReady bool             `json:"encryption_ready"`
}

// Статусы принудительной синхронизации
const (
	SyncStatusSuccess = "success"
	SyncStatusNoPeers = "no_peers"
	SyncStatusError   = "error"
)

// SyncNowResponse результат принудительной синхронизации
type SyncNowResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	SyncedPeers int    `json:"synced_peers"`
	TotalPeers  int    `json:"total_peers"`
}

// SetFieldRequest запрос на запись поля записи
type SetFieldRequest struct {
	Value json.RawMessage `json:"value"`
}

// HistoryEntry представляет запись журнала синхронизации
type HistoryEntry struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	PeerNodeID string    `json:"peer_node_id"`
	PeerURL    string    `json:"peer_url"`
	Direction  string    `json:"direction"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
}

// HistoryResponse ответ с последними записями журнала
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// AddPeerResponse результат сохранения пира
type AddPeerResponse struct {
	URL       string `json:"url"`
	Mode      string `json:"mode"`
	Connected bool   `json:"connected"`
}

package storage

import (
	"context"

	"github.com/iudanet/isync/internal/models"
)

//go:generate moq -out history_mock.go . HistoryStorage

// HistoryStorage defines interface for sync history and saved peers
type HistoryStorage interface {
	// AddHistory appends a sync history entry
	AddHistory(ctx context.Context, entry *models.HistoryEntry) error

	// ListHistory returns up to limit latest entries, newest first
	ListHistory(ctx context.Context, limit int) ([]*models.HistoryEntry, error)

	// SavePeer stores or updates a peer by url
	SavePeer(ctx context.Context, peer *models.SavedPeer) error

	// ListPeers returns saved peers ordered by name
	ListPeers(ctx context.Context) ([]models.SavedPeer, error)

	// DeletePeer deletes a saved peer by url
	// Returns ErrPeerNotFound if peer doesn't exist
	DeletePeer(ctx context.Context, url string) error
}

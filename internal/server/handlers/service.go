package handlers

import (
	"context"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/pkg/api"
)

// NodeService операции узла синхронизации, доступные через HTTP.
// Реализуется node.Node.
//
//go:generate moq -out service_mock.go . NodeService
type NodeService interface {
	Status(ctx context.Context) api.StatusResponse
	SyncNow(ctx context.Context) api.SyncNowResponse
	History(ctx context.Context, limit int) ([]*models.HistoryEntry, error)
	PeerSessions() []api.SessionInfo
	SavedPeers(ctx context.Context) ([]models.SavedPeer, error)
	AddPeer(ctx context.Context, p models.SavedPeer) (bool, error)
	Records(ctx context.Context) (models.Snapshot, error)
	SetField(ctx context.Context, table, recordID, field string, value models.Value) error
	DeleteField(ctx context.Context, table, recordID, field string) error
}

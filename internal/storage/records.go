package storage

import (
	"context"

	"github.com/iudanet/isync/internal/models"
)

//go:generate moq -out records_mock.go . RecordStore

// RecordStore defines interface of the local keyed-table record store.
// The store is read and written as a whole snapshot, never patched partially.
type RecordStore interface {
	// GetRawData returns a full snapshot of all tables
	// Returns an empty snapshot when the store has no data
	GetRawData(ctx context.Context) (models.Snapshot, error)

	// SetRawData replaces the store content with the snapshot
	// Tables missing from the snapshot are removed
	SetRawData(ctx context.Context, snapshot models.Snapshot) error
}

package storage

import (
	"context"
	"time"
)

// StateStorage defines interface for persisting the serialized sync state
type StateStorage interface {
	// SaveState stores encoded sync state, replacing the previous one
	SaveState(ctx context.Context, data []byte) error

	// LoadState retrieves encoded sync state
	// Returns ErrStateNotFound if nothing was saved yet
	LoadState(ctx context.Context) ([]byte, error)
}

// MetadataStorage defines interface for node metadata
type MetadataStorage interface {
	// SaveNodeID stores node id generated on first start
	SaveNodeID(ctx context.Context, nodeID string) error

	// GetNodeID retrieves node id
	// Returns ErrNodeIDNotFound if node id was never saved
	GetNodeID(ctx context.Context) (string, error)

	// SaveLastSyncTime saves time of the last successful sync round
	SaveLastSyncTime(ctx context.Context, t time.Time) error

	// GetLastSyncTime retrieves time of the last successful sync round
	// Returns zero time if no sync has been performed yet
	GetLastSyncTime(ctx context.Context) (time.Time, error)
}

package storage

import "errors"

// Common storage errors
var (
	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrStateNotFound indicates that no sync state has been persisted yet
	ErrStateNotFound = errors.New("sync state not found")

	// ErrNodeIDNotFound indicates that node id has not been persisted yet
	ErrNodeIDNotFound = errors.New("node id not found")

	// ErrPeerNotFound indicates that saved peer was not found
	ErrPeerNotFound = errors.New("peer not found")

	// ErrInvalidSnapshot indicates that record store content cannot be decoded
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

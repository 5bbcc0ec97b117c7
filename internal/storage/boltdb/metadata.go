package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/isync/internal/storage"
)

const (
	keyNodeID       = "node_id"
	keyLastSyncTime = "last_sync_time"
)

// SaveNodeID stores node id generated on first start
func (s *Storage) SaveNodeID(ctx context.Context, nodeID string) error {
	return s.put(keyNodeID, []byte(nodeID))
}

// GetNodeID retrieves node id
// Returns storage.ErrNodeIDNotFound if node id was never saved
func (s *Storage) GetNodeID(ctx context.Context) (string, error) {
	value, err := s.get(keyNodeID)
	if err != nil {
		return "", fmt.Errorf("failed to get node id: %w", err)
	}
	if value == nil {
		return "", storage.ErrNodeIDNotFound
	}
	return string(value), nil
}

// SaveLastSyncTime saves time of the last successful sync round
func (s *Storage) SaveLastSyncTime(ctx context.Context, t time.Time) error {
	// Конвертируем время в unix nano
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return s.put(keyLastSyncTime, buf)
}

// GetLastSyncTime retrieves time of the last successful sync round
// Returns zero time if no sync has been performed yet
func (s *Storage) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	value, err := s.get(keyLastSyncTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}
	if len(value) != 8 {
		// Синхронизаций еще не было
		return time.Time{}, nil
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(value))), nil
}

func (s *Storage) put(key string, value []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

// get возвращает копию значения или nil, если ключа нет
func (s *Storage) get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if value := bucket.Get([]byte(key)); value != nil {
			out = append([]byte{}, value...)
		}
		return nil
	})
	return out, err
}

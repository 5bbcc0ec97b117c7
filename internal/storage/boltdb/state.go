package boltdb

import (
	"context"
	"fmt"

	"github.com/golang/snappy"
	"go.etcd.io/bbolt"

	"github.com/iudanet/isync/internal/storage"
)

const keySyncState = "sync_state"

// SaveState stores encoded sync state compressed with snappy
func (s *Storage) SaveState(ctx context.Context, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}

	compressed := snappy.Encode(nil, data)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}
		return bucket.Put([]byte(keySyncState), compressed)
	})

	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}

	return nil
}

// LoadState retrieves encoded sync state
// Returns storage.ErrStateNotFound if state was never saved
func (s *Storage) LoadState(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var data []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		compressed := bucket.Get([]byte(keySyncState))
		if compressed == nil {
			return storage.ErrStateNotFound
		}

		// Значение валидно только внутри транзакции, Decode пишет в новый буфер
		decoded, err := snappy.Decode(nil, compressed)
		if err != nil {
			return fmt.Errorf("failed to decompress sync state: %w", err)
		}
		data = decoded
		return nil
	})

	if err != nil {
		return nil, err
	}

	return data, nil
}

package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/storage"
)

// GetRawData returns a full snapshot of the record store.
// Each table is a nested bucket of records bucket, each record is JSON under its id.
func (s *Storage) GetRawData(ctx context.Context) (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	snapshot := make(models.Snapshot)

	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketRecords)
		if root == nil {
			return fmt.Errorf("records bucket not found")
		}

		return root.ForEachBucket(func(name []byte) error {
			tableBucket := root.Bucket(name)
			table := make(models.Table)

			err := tableBucket.ForEach(func(k, v []byte) error {
				var rec models.Record
				if err := json.Unmarshal(v, &rec); err != nil {
					return fmt.Errorf("%w: record %s.%s: %v", storage.ErrInvalidSnapshot, name, k, err)
				}
				if rec == nil {
					rec = make(models.Record)
				}
				table[string(k)] = rec
				return nil
			})
			if err != nil {
				return err
			}

			snapshot[string(name)] = table
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return snapshot, nil
}

// SetRawData replaces the record store content with the snapshot in one transaction
func (s *Storage) SetRawData(ctx context.Context, snapshot models.Snapshot) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		// Пересоздаем bucket полностью: таблицы, которых нет в снимке, удаляются
		if err := tx.DeleteBucket(bucketRecords); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete records bucket: %w", err)
		}
		root, err := tx.CreateBucket(bucketRecords)
		if err != nil {
			return fmt.Errorf("failed to create records bucket: %w", err)
		}

		for name, table := range snapshot {
			tableBucket, err := root.CreateBucket([]byte(name))
			if err != nil {
				return fmt.Errorf("failed to create table %q: %w", name, err)
			}

			for id, rec := range table {
				data, err := json.Marshal(rec)
				if err != nil {
					return fmt.Errorf("failed to marshal record %s.%s: %w", name, id, err)
				}
				if err := tableBucket.Put([]byte(id), data); err != nil {
					return fmt.Errorf("failed to save record %s.%s: %w", name, id, err)
				}
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

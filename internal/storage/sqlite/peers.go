package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/storage"
)

// SavePeer stores or updates a peer by url.
// AddedAt of an existing peer is kept.
func (s *Storage) SavePeer(ctx context.Context, peer *models.SavedPeer) error {
	if peer.AddedAt.IsZero() {
		peer.AddedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO peers (url, name, mode, verified, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			mode = excluded.mode,
			verified = excluded.verified
	`

	_, err := s.db.ExecContext(ctx, query,
		peer.URL,
		peer.Name,
		peer.Mode,
		peer.Verified,
		peer.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save peer: %w", err)
	}

	return nil
}

// ListPeers returns saved peers ordered by name
func (s *Storage) ListPeers(ctx context.Context) ([]models.SavedPeer, error) {
	query := `
		SELECT url, name, mode, verified, added_at
		FROM peers
		ORDER BY name, url
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query peers: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	peers := make([]models.SavedPeer, 0)

	for rows.Next() {
		var p models.SavedPeer
		if err := rows.Scan(&p.URL, &p.Name, &p.Mode, &p.Verified, &p.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan peer: %w", err)
		}
		peers = append(peers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return peers, nil
}

// DeletePeer deletes a saved peer by url
func (s *Storage) DeletePeer(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM peers WHERE url = ?`, url)
	if err != nil {
		return fmt.Errorf("failed to delete peer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrPeerNotFound
	}

	return nil
}

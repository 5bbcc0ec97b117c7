package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/isync/internal/codec"
	"github.com/iudanet/isync/internal/crdt"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/pkg/api"
)

var _ peer.Engine = (*Node)(nil)

// StageLocalChanges переносит изменения синхронизируемой таблицы хранилища
// в состояние синхронизации и записывает проекцию обратно.
// Ошибка записи в хранилище возвращается вызывающему.
func (n *Node) StageLocalChanges(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	snapshot, err := n.records.GetRawData(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read records: %w", err)
	}

	changed, err := n.projector.ExtractAndApply(n.state, snapshot)
	if err != nil {
		return changed, fmt.Errorf("failed to stage local changes: %w", err)
	}
	if !changed {
		return false, nil
	}

	out := n.projector.ProjectBack(n.state, snapshot)
	if !out.Equal(snapshot) {
		if err := n.records.SetRawData(ctx, out); err != nil {
			return true, fmt.Errorf("failed to write records: %w", err)
		}
	}

	n.logger.Debug("Local changes staged", "registers", n.state.Len())
	return true, nil
}

// Envelope строит пакет sync_data с текущим состоянием.
// Шифрование выполняется вне блокировки узла над независимой копией состояния.
func (n *Node) Envelope(ctx context.Context, mode string) (*api.SyncEnvelope, error) {
	n.mu.Lock()
	data := n.state.ToData()
	n.mu.Unlock()

	env, err := n.codec.Encode(data, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync state: %w", err)
	}
	return env, nil
}

// HandleSyncData обрабатывает входящий пакет:
//   - эхо собственного пакета и повтор уже обработанного отбрасываются;
//   - зашифрованный пакет на узле без токена пересылается дальше без изменений;
//   - незашифрованный пакет на узле-владельце токена отбрасывается;
//   - остальные пакеты декодируются и сливаются с локальным состоянием.
//
// Ошибки декодирования и расшифровки не возвращаются: пакет отбрасывается
// и попадает в журнал. Возвращается только ошибка записи в хранилище.
func (n *Node) HandleSyncData(ctx context.Context, env *api.SyncEnvelope, from peer.Origin) (peer.Disposition, error) {
	if err := n.codec.CheckOrigin(env); err != nil {
		n.drop(ctx, env, from, err)
		return peer.DispositionDropped, nil
	}

	if seen, _ := n.seen.ContainsOrAdd(packetKey(env), struct{}{}); seen {
		n.logger.Debug("Duplicate sync packet, dropped", "source_node", env.SourceNode, "peer_url", from.URL)
		return peer.DispositionDropped, nil
	}

	if env.Encrypted && !n.codec.CanDecrypt() {
		n.logger.Debug("Forwarding encrypted sync packet", "source_node", env.SourceNode, "source_type", env.SourceType)
		n.record(ctx, env.SourceNode, from.URL, models.DirectionIn, models.HistoryStatusSuccess, "forwarded")
		return peer.DispositionForward, nil
	}

	if !env.Encrypted && n.role == models.RoleControl {
		n.drop(ctx, env, from, ErrPlaintextRejected)
		return peer.DispositionDropped, nil
	}

	remote, err := n.codec.Decode(env)
	if err != nil {
		n.drop(ctx, env, from, err)
		return peer.DispositionDropped, nil
	}

	if err := n.merge(ctx, remote); err != nil {
		n.logger.Error("Failed to apply sync data", "source_node", env.SourceNode, "error", err)
		n.record(ctx, env.SourceNode, from.URL, models.DirectionIn, models.HistoryStatusError, err.Error())
		return peer.DispositionDropped, err
	}

	n.logger.Info("Applied sync data", "source_node", env.SourceNode, "peer_url", from.URL, "encrypted", env.Encrypted)
	n.record(ctx, env.SourceNode, from.URL, models.DirectionIn, models.HistoryStatusSuccess, "")
	return peer.DispositionMerged, nil
}

// merge сливает удаленное состояние и записывает проекцию в хранилище одной
// критической секцией. Несохраненные локальные изменения переносятся в состояние
// до слияния. При ошибке записи состояние откатывается: иначе устаревшая копия
// в хранилище при следующем переносе затерла бы принятые значения.
func (n *Node) merge(ctx context.Context, remote *crdt.SyncState) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	snapshot, err := n.records.GetRawData(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	backup, err := n.cloneState()
	if err != nil {
		return err
	}

	if _, err := n.projector.ExtractAndApply(n.state, snapshot); err != nil {
		n.logger.Warn("Failed to stage local changes before merge", "error", err)
	}

	n.state.Merge(remote)

	out := n.projector.ProjectBack(n.state, snapshot)
	if out.Equal(snapshot) {
		return nil
	}

	if err := n.records.SetRawData(ctx, out); err != nil {
		n.state = backup
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// drop журналирует отброшенный пакет
func (n *Node) drop(ctx context.Context, env *api.SyncEnvelope, from peer.Origin, reason error) {
	source := from.NodeID
	if env != nil && env.SourceNode != "" {
		source = env.SourceNode
	}

	switch {
	case errors.Is(reason, codec.ErrSelfEcho):
		n.logger.Debug("Own sync packet echoed back, dropped", "peer_url", from.URL)
	case errors.Is(reason, ErrPlaintextRejected):
		n.logger.Warn("Received non-encrypted sync data, ignoring", "source_node", source, "peer_url", from.URL)
	default:
		n.logger.Warn("Sync packet dropped", "source_node", source, "peer_url", from.URL, "error", reason)
	}

	n.record(ctx, source, from.URL, models.DirectionIn, models.HistoryStatusDropped, reason.Error())
}

// record пишет запись журнала. Журнал информационный: ошибка только логируется.
func (n *Node) record(ctx context.Context, peerNodeID, peerURL, direction, status, detail string) {
	if n.history == nil {
		return
	}

	entry := &models.HistoryEntry{
		PeerNodeID: peerNodeID,
		PeerURL:    peerURL,
		Direction:  direction,
		Status:     status,
		Detail:     detail,
	}
	if err := n.history.AddHistory(ctx, entry); err != nil {
		n.logger.Warn("Failed to record sync history", "error", err)
	}
}

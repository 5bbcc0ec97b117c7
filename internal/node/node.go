// Package node связывает состояние синхронизации, хранилище записей, кодек,
// журнал и менеджер пиров в один объект-контекст процесса.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iudanet/isync/internal/codec"
	"github.com/iudanet/isync/internal/crdt"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/projector"
	"github.com/iudanet/isync/internal/storage"
	"github.com/iudanet/isync/internal/validation"
)

// Options зависимости и параметры узла
type Options struct {
	Records        storage.RecordStore     // Records хранилище записей (обязательно)
	States         storage.StateStorage    // States хранилище состояния, nil - состояние не сохраняется
	Metadata       storage.MetadataStorage // Metadata время последней синхронизации, может быть nil
	History        storage.HistoryStorage  // History журнал и сохраненные пиры, может быть nil
	Codec          *codec.Codec            // Codec кодек узла (обязательно)
	Projector      *projector.Projector    // Projector nil - фильтр по умолчанию
	Logger         *slog.Logger            // Logger nil - slog.Default()
	Clock          func() float64          // Clock источник времени регистров, nil - crdt.WallClock
	ID             string                  // ID идентификатор узла, должен совпадать с Codec.NodeID()
	Role           models.Role             // Role control или relay
	KeyFingerprint string                  // KeyFingerprint отпечаток ключа для статуса
	SeenCacheSize  int                     // SeenCacheSize 0 - DefaultSeenCacheSize
}

// Node объект-контекст процесса синхронизации.
// Все последовательности чтение-изменение-запись состояния и хранилища
// выполняются под одной блокировкой mu.
type Node struct {
	lastSync    time.Time
	records     storage.RecordStore
	states      storage.StateStorage
	metadata    storage.MetadataStorage
	history     storage.HistoryStorage
	codec       *codec.Codec
	projector   *projector.Projector
	logger      *slog.Logger
	state       *crdt.SyncState
	peers       *peer.Manager
	seen        *lru.Cache[string, struct{}]
	stateOpts   []crdt.Option
	id          string
	role        models.Role
	fingerprint string
	mu          sync.Mutex
	peersMu     sync.RWMutex
	syncEnabled bool
}

// New создает узел с пустым состоянием синхронизации.
// Сохраненное состояние загружается отдельно через Load.
func New(opts Options) (*Node, error) {
	if err := validation.ValidateNodeID(opts.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if !opts.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidOptions, opts.Role)
	}
	if opts.Records == nil {
		return nil, fmt.Errorf("%w: record store is required", ErrInvalidOptions)
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("%w: codec is required", ErrInvalidOptions)
	}
	if opts.Codec.NodeID() != opts.ID {
		return nil, fmt.Errorf("%w: codec node id %q does not match %q", ErrInvalidOptions, opts.Codec.NodeID(), opts.ID)
	}
	if opts.Role == models.RoleControl && !opts.Codec.CanDecrypt() {
		return nil, fmt.Errorf("%w: control node requires a token", ErrInvalidOptions)
	}

	if opts.Projector == nil {
		opts.Projector = projector.New(projector.DefaultFilter())
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var stateOpts []crdt.Option
	if opts.Clock != nil {
		stateOpts = append(stateOpts, crdt.WithClock(opts.Clock))
	}

	seen, err := newSeenCache(opts.SeenCacheSize)
	if err != nil {
		return nil, err
	}

	return &Node{
		records:     opts.Records,
		states:      opts.States,
		metadata:    opts.Metadata,
		history:     opts.History,
		codec:       opts.Codec,
		projector:   opts.Projector,
		logger:      opts.Logger.With("node_id", opts.ID),
		state:       crdt.NewSyncState(opts.ID, stateOpts...),
		seen:        seen,
		stateOpts:   stateOpts,
		id:          opts.ID,
		role:        opts.Role,
		fingerprint: opts.KeyFingerprint,
		syncEnabled: true,
	}, nil
}

// ResolveNodeID определяет идентификатор узла: заданный в конфигурации,
// сохраненный при прошлом запуске или новый UUID. Результат сохраняется.
func ResolveNodeID(ctx context.Context, meta storage.MetadataStorage, configured string) (string, error) {
	if configured != "" {
		if err := validation.ValidateNodeID(configured); err != nil {
			return "", err
		}
		if err := meta.SaveNodeID(ctx, configured); err != nil {
			return "", fmt.Errorf("failed to save node id: %w", err)
		}
		return configured, nil
	}

	stored, err := meta.GetNodeID(ctx)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, storage.ErrNodeIDNotFound) {
		return "", fmt.Errorf("failed to load node id: %w", err)
	}

	generated := uuid.NewString()
	if err := meta.SaveNodeID(ctx, generated); err != nil {
		return "", fmt.Errorf("failed to save node id: %w", err)
	}
	return generated, nil
}

// NodeID идентификатор узла
func (n *Node) NodeID() string {
	return n.id
}

// Role роль узла
func (n *Node) Role() models.Role {
	return n.role
}

// Projector фильтр и проекция синхронизируемой таблицы
func (n *Node) Projector() *projector.Projector {
	return n.projector
}

// AttachPeers подключает менеджер пиров для статуса и принудительной синхронизации
func (n *Node) AttachPeers(m *peer.Manager) {
	n.peersMu.Lock()
	defer n.peersMu.Unlock()
	n.peers = m
}

// Peers возвращает подключенный менеджер пиров или nil
func (n *Node) Peers() *peer.Manager {
	n.peersMu.RLock()
	defer n.peersMu.RUnlock()
	return n.peers
}

// SetSyncEnabled включает или выключает автосинхронизацию (отражается в статусе)
func (n *Node) SetSyncEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.syncEnabled = enabled
}

// SyncEnabled сообщает, включена ли автосинхронизация
func (n *Node) SyncEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.syncEnabled
}

// StateData возвращает независимую копию состояния синхронизации
func (n *Node) StateData() crdt.StateData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.ToData()
}

// Load восстанавливает сохраненное состояние синхронизации и время последней синхронизации.
// Отсутствие сохраненного состояния не ошибка.
func (n *Node) Load(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.metadata != nil {
		last, err := n.metadata.GetLastSyncTime(ctx)
		if err != nil {
			return fmt.Errorf("failed to load last sync time: %w", err)
		}
		n.lastSync = last
	}

	if n.states == nil {
		return nil
	}

	raw, err := n.states.LoadState(ctx)
	if errors.Is(err, storage.ErrStateNotFound) {
		n.logger.Debug("No saved sync state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	loaded, err := crdt.Decode(raw, n.stateOpts...)
	if err != nil {
		return fmt.Errorf("failed to decode sync state: %w", err)
	}

	data := loaded.ToData()
	if data.NodeID != n.id {
		// Состояние чужого узла (node.id изменен в конфигурации): регистры
		// сохраняют своих авторов, меняется только владелец состояния
		n.logger.Warn("Saved sync state belongs to another node id", "saved_node_id", data.NodeID)
		data.NodeID = n.id
	}

	state, err := crdt.FromData(data, n.stateOpts...)
	if err != nil {
		return fmt.Errorf("failed to restore sync state: %w", err)
	}
	n.state = state

	n.logger.Info("Sync state loaded", "registers", state.Len(), "deleted", state.DeletedLen())
	return nil
}

// Persist сохраняет состояние синхронизации и время последней синхронизации
func (n *Node) Persist(ctx context.Context) error {
	n.mu.Lock()
	data := n.state.ToData()
	n.mu.Unlock()

	if n.states != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal sync state: %w", err)
		}
		if err := n.states.SaveState(ctx, encoded); err != nil {
			return fmt.Errorf("failed to persist sync state: %w", err)
		}
	}

	if n.metadata != nil {
		if last := n.LastSync(); !last.IsZero() {
			if err := n.metadata.SaveLastSyncTime(ctx, last); err != nil {
				return fmt.Errorf("failed to persist last sync time: %w", err)
			}
		}
	}

	return nil
}

// RunPersistence сохраняет состояние каждые interval и один раз при отмене ctx
func (n *Node) RunPersistence(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx уже отменен, финальное сохранение идет со своим таймаутом
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := n.Persist(saveCtx); err != nil {
				n.logger.Error("Failed to persist sync state on shutdown", "error", err)
			}
			cancel()
			return
		case <-ticker.C:
			if err := n.Persist(ctx); err != nil {
				n.logger.Error("Failed to persist sync state", "error", err)
			}
		}
	}
}

// LastSync время последней успешной синхронизации хотя бы с одним пиром
func (n *Node) LastSync() time.Time {
	n.mu.Lock()
	last := n.lastSync
	n.mu.Unlock()

	if m := n.Peers(); m != nil {
		if managerLast := m.LastSync(); managerLast.After(last) {
			return managerLast
		}
	}
	return last
}

// cloneState копия состояния для отката неудачной записи в хранилище
func (n *Node) cloneState() (*crdt.SyncState, error) {
	clone, err := crdt.FromData(n.state.ToData(), n.stateOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to clone sync state: %w", err)
	}
	return clone, nil
}

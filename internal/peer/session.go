package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/isync/internal/transport"
	"github.com/iudanet/isync/internal/validation"
	"github.com/iudanet/isync/pkg/api"
)

// DefaultHandshakeTimeout время ожидания ответа на рукопожатие по умолчанию
const DefaultHandshakeTimeout = 10 * time.Second

// State состояние сессии с пиром
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshaking
	StateSynced
	StateSyncing
)

// String возвращает имя состояния
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateSynced:
		return "synced"
	case StateSyncing:
		return "syncing"
	default:
		return "disconnected"
	}
}

// DialFunc открывает транспортное соединение с пиром
type DialFunc func(ctx context.Context, rawURL string, logger *slog.Logger) (transport.Conn, error)

// SessionConfig параметры одной сессии
type SessionConfig struct {
	URL              string        // URL адрес пира (для входящих - адрес удаленной стороны)
	Mode             string        // Mode api.ModeEncrypted или api.ModePlain
	HandshakeTimeout time.Duration // HandshakeTimeout 0 - DefaultHandshakeTimeout
	PushInterval     time.Duration // PushInterval период отправки состояния, 0 - только по команде
}

// SessionOption настраивает Session
type SessionOption func(*Session)

// WithDialer подменяет функцию подключения (по умолчанию transport.Dial)
func WithDialer(dial DialFunc) SessionOption {
	return func(s *Session) {
		if dial != nil {
			s.dial = dial
		}
	}
}

// WithOnClose задает обратный вызов, срабатывающий один раз при закрытии сессии
func WithOnClose(fn func(*Session)) SessionOption {
	return func(s *Session) {
		s.onClose = fn
	}
}

// WithOnForward задает обработчик пакетов, которые нужно переслать остальным пирам
func WithOnForward(fn func(*Session, *api.SyncEnvelope)) SessionOption {
	return func(s *Session) {
		s.onForward = fn
	}
}

// WithOnRequestSync задает обработчик события request_sync от пира.
// Без обработчика сессия отвечает своим состоянием только этому пиру.
func WithOnRequestSync(fn func(*Session)) SessionOption {
	return func(s *Session) {
		s.onRequest = fn
	}
}

// Session управляет одним соединением с пиром:
// Disconnected -> Connecting -> Handshaking -> Synced <-> Syncing.
// Ошибка транспорта в любом состоянии переводит сессию в Disconnected.
// Сессия одноразовая: после закрытия переподключение делает менеджер новой сессией.
type Session struct {
	engine    Engine
	conn      transport.Conn
	logger    *slog.Logger
	dial      DialFunc
	onClose   func(*Session)
	onForward func(*Session, *api.SyncEnvelope)
	onRequest func(*Session)
	ctx       context.Context
	cancel    context.CancelFunc
	handshake chan api.HandshakeResponse
	cfg       SessionConfig
	id        string
	remoteID  string
	mu        sync.RWMutex
	closeOnce sync.Once
	state     State
	inbound   bool
	closed    bool
}

// NewSession создает сессию в состоянии Disconnected
func NewSession(engine Engine, cfg SessionConfig, logger *slog.Logger, opts ...SessionOption) *Session {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.Mode == "" {
		cfg.Mode = api.ModeEncrypted
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		engine:    engine,
		logger:    logger,
		dial:      transport.Dial,
		ctx:       ctx,
		cancel:    cancel,
		handshake: make(chan api.HandshakeResponse, 1),
		cfg:       cfg,
		id:        uuid.NewString(),
		state:     StateDisconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("peer_url", cfg.URL, "session_id", s.id)
	return s
}

// ID уникальный идентификатор сессии
func (s *Session) ID() string { return s.id }

// URL адрес пира
func (s *Session) URL() string { return s.cfg.URL }

// Mode режим соединения
func (s *Session) Mode() string { return s.cfg.Mode }

// Inbound true для соединений, принятых сервером
func (s *Session) Inbound() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inbound
}

// State текущее состояние
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// RemoteNodeID идентификатор пира из рукопожатия (пустой до его завершения)
func (s *Session) RemoteNodeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteID
}

// Done закрывается после закрытия сессии
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Info возвращает описание сессии для статуса
func (s *Session) Info() api.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return api.SessionInfo{
		URL:     s.cfg.URL,
		NodeID:  s.remoteID,
		State:   s.state.String(),
		Mode:    s.cfg.Mode,
		Inbound: s.inbound,
	}
}

// Connected true после успешного рукопожатия и до закрытия
func (s *Session) Connected() bool {
	st := s.State()
	return st == StateSynced || st == StateSyncing
}

// Connect подключается к пиру и выполняет рукопожатие.
// Неверный адрес отклоняется сразу (ErrInvalidPeerURL) без попытки подключения.
// ctx ограничивает подключение и ожидание ответа; время жизни сессии от него не зависит.
func (s *Session) Connect(ctx context.Context) error {
	if _, err := transport.NormalizeURL(s.cfg.URL); err != nil {
		s.Close()
		return fmt.Errorf("%w: %v", ErrInvalidPeerURL, err)
	}

	s.mu.Lock()
	if s.closed || s.state != StateDisconnected {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.state = StateConnecting
	s.mu.Unlock()

	conn, err := s.dial(ctx, s.cfg.URL, s.logger)
	if err != nil {
		s.Close()
		return fmt.Errorf("failed to connect to %s: %w", s.cfg.URL, err)
	}

	if !s.attach(conn, false) {
		_ = conn.Close()
		return ErrSessionClosed
	}

	go s.serve(transport.Handlers{
		api.EventHandshakeResponse: s.handleHandshakeResponse,
		api.EventSyncData:          s.handleSyncData,
		api.EventRequestSync:       s.handleRequestSync,
	})

	req := api.HandshakeRequest{NodeID: s.engine.NodeID()}
	if err := conn.Emit(ctx, api.EventPeerHandshake, req); err != nil {
		s.Close()
		return fmt.Errorf("failed to send handshake: %w", err)
	}

	resp, err := s.awaitHandshake(ctx)
	if err != nil {
		s.Close()
		return err
	}
	if resp.Status != api.HandshakeAccepted {
		s.Close()
		return fmt.Errorf("%w: %s", ErrHandshakeRejected, resp.Status)
	}

	s.start()
	return nil
}

// Accept обслуживает входящее соединение: ждет peer_handshake, отвечает
// handshake_response и переходит в Synced. Пир с некорректным или
// совпадающим с локальным node_id получает отказ.
func (s *Session) Accept(ctx context.Context, conn transport.Conn) error {
	if !s.attach(conn, true) {
		_ = conn.Close()
		return ErrSessionClosed
	}

	go s.serve(transport.Handlers{
		api.EventPeerHandshake: s.handlePeerHandshake,
		api.EventSyncData:      s.handleSyncData,
		api.EventRequestSync:   s.handleRequestSync,
	})

	resp, err := s.awaitHandshake(ctx)
	if err != nil {
		s.Close()
		return err
	}
	if resp.Status != api.HandshakeAccepted {
		s.Close()
		return fmt.Errorf("%w: %s", ErrHandshakeRejected, resp.Status)
	}

	s.start()
	return nil
}

// Push отправляет пиру текущее состояние (Synced -> Syncing -> Synced).
// Отправка без подтверждения: успех означает, что кадр записан в соединение.
func (s *Session) Push(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateSynced && s.state != StateSyncing {
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.state = StateSyncing
	conn := s.conn
	s.mu.Unlock()

	defer s.transition(StateSyncing, StateSynced)

	env, err := s.engine.Envelope(ctx, s.cfg.Mode)
	if err != nil {
		return fmt.Errorf("failed to build sync envelope: %w", err)
	}

	return s.emit(ctx, conn, env)
}

// Forward отправляет пиру уже готовый пакет без изменений
func (s *Session) Forward(ctx context.Context, env *api.SyncEnvelope) error {
	s.mu.RLock()
	closed, state, conn := s.closed, s.state, s.conn
	s.mu.RUnlock()

	if closed {
		return ErrSessionClosed
	}
	if state != StateSynced && state != StateSyncing {
		return ErrNotConnected
	}

	return s.emit(ctx, conn, env)
}

// RequestSync просит пира разослать свое состояние всем его пирам
func (s *Session) RequestSync(ctx context.Context) error {
	s.mu.RLock()
	closed, conn := s.closed, s.conn
	s.mu.RUnlock()

	if closed {
		return ErrSessionClosed
	}
	if !s.Connected() {
		return ErrNotConnected
	}

	if err := conn.Emit(ctx, api.EventRequestSync, struct{}{}); err != nil {
		return fmt.Errorf("failed to send request_sync to %s: %w", s.cfg.URL, err)
	}
	return nil
}

// Close закрывает сессию, останавливает таймер отправки и вызывает OnClose.
// Слияние, начатое последним пакетом, доводится до конца.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		wasConnected := s.state == StateSynced || s.state == StateSyncing
		s.closed = true
		s.state = StateDisconnected
		conn := s.conn
		s.mu.Unlock()

		s.cancel()
		if conn != nil {
			_ = conn.Close()
		}

		if wasConnected {
			s.logger.Info("Peer disconnected", "node_id", s.RemoteNodeID())
		}
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

func (s *Session) attach(conn transport.Conn, inbound bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conn = conn
	s.inbound = inbound
	s.state = StateHandshaking
	return true
}

func (s *Session) transition(from, to State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == from {
		s.state = to
	}
}

// markSynced фиксирует пира и переводит сессию в Synced.
// Вызывается из обработчика рукопожатия, чтобы sync_data сразу за ответом не терялся.
func (s *Session) markSynced(remoteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.remoteID = remoteID
	s.state = StateSynced
}

func (s *Session) awaitHandshake(ctx context.Context) (api.HandshakeResponse, error) {
	timer := time.NewTimer(s.cfg.HandshakeTimeout)
	defer timer.Stop()

	select {
	case resp := <-s.handshake:
		return resp, nil
	case <-timer.C:
		return api.HandshakeResponse{}, fmt.Errorf("%w after %s", ErrHandshakeTimeout, s.cfg.HandshakeTimeout)
	case <-ctx.Done():
		return api.HandshakeResponse{}, ctx.Err()
	case <-s.ctx.Done():
		// Отказ мог прийти одновременно с закрытием соединения
		select {
		case resp := <-s.handshake:
			return resp, nil
		default:
			return api.HandshakeResponse{}, ErrSessionClosed
		}
	}
}

// start запускает периодическую отправку и первую синхронизацию после рукопожатия
func (s *Session) start() {
	s.logger.Info("Peer connected", "node_id", s.RemoteNodeID(), "mode", s.cfg.Mode, "inbound", s.Inbound())

	go func() {
		if err := s.Push(s.ctx); err != nil {
			s.logger.Warn("Initial sync failed", "error", err)
		}
	}()

	if s.cfg.PushInterval > 0 {
		go s.pushLoop()
	}
}

func (s *Session) pushLoop() {
	ticker := time.NewTicker(s.cfg.PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.Push(s.ctx); err != nil {
				s.logger.Warn("Periodic sync failed", "error", err)
			}
		}
	}
}

func (s *Session) serve(handlers transport.Handlers) {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if err := conn.Serve(s.ctx, handlers); err != nil {
		s.logger.Warn("Peer connection lost", "error", err)
	}
	s.Close()
}

func (s *Session) emit(ctx context.Context, conn transport.Conn, env *api.SyncEnvelope) error {
	if err := conn.Emit(ctx, api.EventSyncData, env); err != nil {
		// Отмена вызывающим не ошибка транспорта
		if ctx.Err() == nil {
			s.Close()
		}
		return fmt.Errorf("failed to send sync_data to %s: %w", s.cfg.URL, err)
	}
	return nil
}

func (s *Session) handleHandshakeResponse(_ context.Context, data json.RawMessage) error {
	var resp api.HandshakeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to decode handshake_response: %w", err)
	}

	if s.State() != StateHandshaking {
		return nil
	}
	if resp.Status == api.HandshakeAccepted {
		s.markSynced(resp.NodeID)
	}

	select {
	case s.handshake <- resp:
	default:
	}
	return nil
}

func (s *Session) handlePeerHandshake(ctx context.Context, data json.RawMessage) error {
	var req api.HandshakeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode peer_handshake: %w", err)
	}

	if s.State() != StateHandshaking {
		return nil
	}

	localID := s.engine.NodeID()
	resp := api.HandshakeResponse{NodeID: localID, Status: api.HandshakeAccepted}
	if err := validation.ValidateNodeID(req.NodeID); err != nil {
		resp.Status = api.HandshakeRejected
	} else if req.NodeID == localID {
		resp.Status = api.HandshakeRejected
	}

	if resp.Status == api.HandshakeAccepted {
		s.markSynced(req.NodeID)
	} else {
		s.logger.Warn("Peer handshake rejected", "node_id", req.NodeID)
	}

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	err := conn.Emit(ctx, api.EventHandshakeResponse, resp)

	select {
	case s.handshake <- resp:
	default:
	}

	if err != nil {
		return fmt.Errorf("failed to send handshake_response: %w", err)
	}
	return nil
}

func (s *Session) handleSyncData(ctx context.Context, data json.RawMessage) error {
	if !s.Connected() {
		s.logger.Debug("Sync data before handshake, dropped")
		return nil
	}

	var env api.SyncEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to decode sync_data: %w", err)
	}

	origin := Origin{NodeID: s.RemoteNodeID(), URL: s.cfg.URL, Mode: s.cfg.Mode}
	disposition, err := s.engine.HandleSyncData(ctx, &env, origin)
	if err != nil {
		return err
	}

	if disposition == DispositionForward && s.onForward != nil {
		s.onForward(s, &env)
	}
	return nil
}

// handleRequestSync запускает рассылку вне цикла чтения: отправка не должна
// ждать обработки входящих кадров этой же сессии
func (s *Session) handleRequestSync(_ context.Context, _ json.RawMessage) error {
	if !s.Connected() {
		s.logger.Debug("Sync request before handshake, dropped")
		return nil
	}

	s.logger.Debug("Sync requested by peer", "node_id", s.RemoteNodeID())
	if s.onRequest != nil {
		s.onRequest(s)
		return nil
	}

	go func() {
		if err := s.Push(s.ctx); err != nil {
			s.logger.Warn("Requested sync failed", "error", err)
		}
	}()
	return nil
}

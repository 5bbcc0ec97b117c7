package peer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/transport"
	"github.com/iudanet/isync/pkg/api"
)

const (
	// DefaultMaxPeers максимальное число исходящих соединений по умолчанию
	DefaultMaxPeers = 3
	// DefaultConnectStagger пауза между попытками подключения
	DefaultConnectStagger = time.Second
	// DefaultSyncInterval период автосинхронизации
	DefaultSyncInterval = 30 * time.Second

	requestSyncTimeout = 30 * time.Second
)

// Config параметры менеджера пиров
type Config struct {
	DefaultMode       string        // DefaultMode режим соединений без явной настройки
	StaticPeers       []string      // StaticPeers адреса из конфигурации, считаются проверенными
	MaxPeers          int           // MaxPeers ограничение числа исходящих сессий
	ConnectStagger    time.Duration // ConnectStagger пауза между подключениями
	HandshakeTimeout  time.Duration // HandshakeTimeout таймаут рукопожатия
	PushInterval      time.Duration // PushInterval периодическая отправка внутри сессии
	ReconnectInterval time.Duration // ReconnectInterval период повторного discovery, 0 - выключено
}

// Target адрес пира и режим соединения с ним
type Target struct {
	URL  string
	Mode string
}

// PeerLister источник сохраненных оператором пиров
type PeerLister interface {
	ListPeers(ctx context.Context) ([]models.SavedPeer, error)
}

// ManagerOption настраивает Manager
type ManagerOption func(*Manager)

// WithDiscovery подключает discovery эндпоинт
func WithDiscovery(d *Discovery) ManagerOption {
	return func(m *Manager) {
		m.discovery = d
	}
}

// WithSavedPeers подключает хранилище сохраненных пиров
func WithSavedPeers(l PeerLister) ManagerOption {
	return func(m *Manager) {
		m.saved = l
	}
}

// WithManagerDialer подменяет функцию подключения для всех сессий
func WithManagerDialer(dial DialFunc) ManagerOption {
	return func(m *Manager) {
		if dial != nil {
			m.dial = dial
		}
	}
}

// Manager поддерживает ограниченный набор сессий с пирами:
// discovery, выбор кандидатов, подключение с паузами, автосинхронизация.
type Manager struct {
	lastSync      time.Time
	lastDiscovery time.Time
	engine        Engine
	saved         PeerLister
	discovery     *Discovery
	logger        *slog.Logger
	dial          DialFunc
	sessions      map[string]*Session
	cfg           Config
	mu            sync.RWMutex
	requesting    atomic.Bool
	closed        bool
}

// NewManager создает менеджер без активных сессий
func NewManager(engine Engine, cfg Config, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if cfg.MaxPeers <= 0 {
		cfg.MaxPeers = DefaultMaxPeers
	}
	if cfg.ConnectStagger < 0 {
		cfg.ConnectStagger = 0
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = api.ModeEncrypted
	}

	m := &Manager{
		engine:   engine,
		logger:   logger,
		dial:     transport.Dial,
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultMode режим соединений по умолчанию
func (m *Manager) DefaultMode() string {
	return m.cfg.DefaultMode
}

// Select упорядочивает кандидатов: сначала проверенные, затем по имени;
// записи без url пропускаются. Возвращает не более limit адресов.
// Результат детерминирован для одинакового входа.
func Select(list []api.PeerInfo, limit int) []string {
	candidates := make([]api.PeerInfo, 0, len(list))
	for _, p := range list {
		if p.URL != "" {
			candidates = append(candidates, p)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Verified != candidates[j].Verified {
			return candidates[i].Verified
		}
		return candidates[i].Name < candidates[j].Name
	})

	if limit < 0 {
		limit = 0
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	urls := make([]string, 0, len(candidates))
	for _, p := range candidates {
		urls = append(urls, p.URL)
	}
	return urls
}

// ConnectAll подключается к адресам в режиме по умолчанию.
// Возвращает число сессий, завершивших рукопожатие.
func (m *Manager) ConnectAll(ctx context.Context, urls []string) int {
	targets := make([]Target, 0, len(urls))
	for _, u := range urls {
		targets = append(targets, Target{URL: u, Mode: m.cfg.DefaultMode})
	}
	return m.ConnectTargets(ctx, targets)
}

// ConnectTargets подключается к пирам по одному с паузой ConnectStagger,
// пропуская уже подключенные адреса и не превышая MaxPeers исходящих сессий.
// Ошибки подключения логируются и не прерывают обход.
func (m *Manager) ConnectTargets(ctx context.Context, targets []Target) int {
	connected := 0
	attempted := 0

	for _, target := range targets {
		if m.outboundCount() >= m.cfg.MaxPeers {
			break
		}
		if m.hasURL(target.URL) {
			continue
		}

		if attempted > 0 && m.cfg.ConnectStagger > 0 {
			timer := time.NewTimer(m.cfg.ConnectStagger)
			select {
			case <-ctx.Done():
				timer.Stop()
				return connected
			case <-timer.C:
			}
		}
		attempted++

		sess := m.newSession(target)
		if err := sess.Connect(ctx); err != nil {
			m.logger.Warn("Failed to connect to peer", "peer_url", target.URL, "error", err)
			continue
		}
		if !m.add(sess) {
			sess.Close()
			continue
		}
		connected++
	}

	return connected
}

// Attach принимает входящее соединение и регистрирует сессию после рукопожатия
func (m *Manager) Attach(ctx context.Context, conn transport.Conn) (*Session, error) {
	sess := m.newSession(Target{URL: conn.RemoteAddr(), Mode: m.cfg.DefaultMode})
	if err := sess.Accept(ctx, conn); err != nil {
		return nil, err
	}
	if !m.add(sess) {
		sess.Close()
		return nil, ErrSessionClosed
	}
	return sess, nil
}

// AutoDiscover собирает кандидатов из discovery, сохраненных и статических пиров,
// выбирает до MaxPeers и подключается к ним
func (m *Manager) AutoDiscover(ctx context.Context) int {
	m.mu.Lock()
	m.lastDiscovery = time.Now()
	m.mu.Unlock()

	modes := make(map[string]string)
	var candidates []api.PeerInfo

	for _, u := range m.cfg.StaticPeers {
		candidates = append(candidates, api.PeerInfo{Name: u, URL: u, Verified: true})
	}

	if m.saved != nil {
		saved, err := m.saved.ListPeers(ctx)
		if err != nil {
			m.logger.Warn("Failed to load saved peers", "error", err)
		}
		for _, p := range saved {
			candidates = append(candidates, api.PeerInfo{Name: p.Name, URL: p.URL, Verified: p.Verified})
			if p.Mode != "" {
				modes[p.URL] = p.Mode
			}
		}
	}

	if m.discovery.Enabled() {
		candidates = append(candidates, m.discovery.Fetch(ctx)...)
	}

	// Уже подключенные и повторяющиеся адреса не занимают место в выборке
	seen := make(map[string]bool)
	fresh := make([]api.PeerInfo, 0, len(candidates))
	for _, c := range candidates {
		if c.URL == "" || seen[c.URL] || m.hasURL(c.URL) {
			continue
		}
		seen[c.URL] = true
		fresh = append(fresh, c)
	}

	free := m.cfg.MaxPeers - m.outboundCount()
	if free <= 0 {
		return 0
	}

	urls := Select(fresh, free)
	targets := make([]Target, 0, len(urls))
	for _, u := range urls {
		mode := m.cfg.DefaultMode
		if saved, ok := modes[u]; ok {
			mode = saved
		}
		targets = append(targets, Target{URL: u, Mode: mode})
	}

	connected := m.ConnectTargets(ctx, targets)
	m.logger.Info("Peer discovery round finished",
		"candidates", len(fresh), "selected", len(targets), "connected", connected)
	return connected
}

// SyncToAll переносит локальные изменения в состояние один раз и отправляет его
// каждому пиру. Результаты пиров независимы; возвращает число успешных отправок.
func (m *Manager) SyncToAll(ctx context.Context) int {
	if _, err := m.engine.StageLocalChanges(ctx); err != nil {
		m.logger.Error("Failed to stage local changes", "error", err)
	}

	synced := 0
	for _, sess := range m.Sessions() {
		if err := sess.Push(ctx); err != nil {
			m.logger.Warn("Sync to peer failed", "peer_url", sess.URL(), "error", err)
			continue
		}
		synced++
	}

	if synced > 0 {
		m.mu.Lock()
		m.lastSync = time.Now()
		m.mu.Unlock()
	}

	return synced
}

// RunAutoSync вызывает SyncToAll каждые interval до отмены ctx.
// При ReconnectInterval > 0 и нехватке пиров повторяет discovery.
func (m *Manager) RunAutoSync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			synced := m.SyncToAll(ctx)
			m.logger.Debug("Auto sync round", "synced", synced, "total", m.Count())

			if m.needsRediscovery() {
				m.AutoDiscover(ctx)
			}
		}
	}
}

// Broadcast пересылает пакет всем сессиям, кроме exceptID.
// Возвращает число пиров, которым пакет отправлен.
func (m *Manager) Broadcast(ctx context.Context, env *api.SyncEnvelope, exceptID string) int {
	sent := 0
	for _, sess := range m.Sessions() {
		if sess.ID() == exceptID {
			continue
		}
		if err := sess.Forward(ctx, env); err != nil {
			m.logger.Warn("Forward to peer failed", "peer_url", sess.URL(), "error", err)
			continue
		}
		sent++
	}
	return sent
}

// Sessions возвращает активные сессии, упорядоченные по адресу
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].URL() != out[j].URL() {
			return out[i].URL() < out[j].URL()
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Infos возвращает описание активных сессий
func (m *Manager) Infos() []api.SessionInfo {
	sessions := m.Sessions()
	out := make([]api.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	return out
}

// Count число активных сессий
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LastSync время последней успешной синхронизации хотя бы с одним пиром
func (m *Manager) LastSync() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// Disconnect закрывает все сессии с адресом url и возвращает их число
func (m *Manager) Disconnect(url string) int {
	closed := 0
	for _, s := range m.Sessions() {
		if s.URL() == url {
			s.Close()
			closed++
		}
	}
	return closed
}

// Close закрывает все сессии; новые сессии после этого не регистрируются
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	for _, s := range m.Sessions() {
		s.Close()
	}
}

func (m *Manager) newSession(target Target) *Session {
	if target.Mode == "" {
		target.Mode = m.cfg.DefaultMode
	}
	return NewSession(m.engine, SessionConfig{
		URL:              target.URL,
		Mode:             target.Mode,
		HandshakeTimeout: m.cfg.HandshakeTimeout,
		PushInterval:     m.cfg.PushInterval,
	}, m.logger,
		WithDialer(m.dial),
		WithOnClose(m.remove),
		WithOnForward(m.forward),
		WithOnRequestSync(m.requestSync),
	)
}

// requestSync выполняет SyncToAll по просьбе пира. Пока идет рассылка,
// повторные просьбы игнорируются.
func (m *Manager) requestSync(from *Session) {
	if !m.requesting.CompareAndSwap(false, true) {
		m.logger.Debug("Sync already in progress, request ignored", "peer_url", from.URL())
		return
	}

	go func() {
		defer m.requesting.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), requestSyncTimeout)
		defer cancel()

		synced := m.SyncToAll(ctx)
		m.logger.Info("Requested sync finished", "peer_url", from.URL(), "synced", synced, "total", m.Count())
	}()
}

// add регистрирует сессию. Сессия, закрытая до регистрации, не добавляется;
// закрытая после - будет удалена через OnClose.
func (m *Manager) add(s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !s.Connected() {
		return false
	}
	m.sessions[s.ID()] = s
	return true
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.ID())
}

func (m *Manager) forward(from *Session, env *api.SyncEnvelope) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultHandshakeTimeout)
	defer cancel()

	sent := m.Broadcast(ctx, env, from.ID())
	m.logger.Debug("Forwarded sync packet", "source_node", env.SourceNode, "peers", sent)
}

func (m *Manager) hasURL(url string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.URL() == url {
			return true
		}
	}
	return false
}

func (m *Manager) outboundCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.sessions {
		if !s.Inbound() {
			n++
		}
	}
	return n
}

func (m *Manager) needsRediscovery() bool {
	if m.cfg.ReconnectInterval <= 0 {
		return false
	}
	m.mu.RLock()
	last := m.lastDiscovery
	m.mu.RUnlock()
	return m.outboundCount() < m.cfg.MaxPeers && time.Since(last) >= m.cfg.ReconnectInterval
}

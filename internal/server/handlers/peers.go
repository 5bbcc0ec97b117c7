package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/node"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/transport"
	"github.com/iudanet/isync/pkg/api"
)

// PeerAcceptor принимает входящие websocket соединения пиров.
// Реализуется peer.Manager.
type PeerAcceptor interface {
	Attach(ctx context.Context, conn transport.Conn) (*peer.Session, error)
}

// PeersHandler обрабатывает запросы списка пиров и входящие соединения пиров
type PeersHandler struct {
	logger           *slog.Logger
	node             NodeService
	acceptor         PeerAcceptor
	handshakeTimeout time.Duration
}

// NewPeersHandler создает новый handler пиров.
// acceptor может быть nil: тогда входящие соединения не принимаются.
func NewPeersHandler(logger *slog.Logger, node NodeService, acceptor PeerAcceptor, handshakeTimeout time.Duration) *PeersHandler {
	if handshakeTimeout <= 0 {
		handshakeTimeout = peer.DefaultHandshakeTimeout
	}
	return &PeersHandler{
		logger:           logger,
		node:             node,
		acceptor:         acceptor,
		handshakeTimeout: handshakeTimeout,
	}
}

// List обрабатывает GET /api/v1/peers
func (h *PeersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	saved, err := h.node.SavedPeers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list saved peers", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.PeersResponse{
		Connected: h.node.PeerSessions(),
		Saved:     make([]api.SavedPeer, 0, len(saved)),
	}
	for _, p := range saved {
		resp.Saved = append(resp.Saved, api.SavedPeer{
			AddedAt:  p.AddedAt,
			URL:      p.URL,
			Name:     p.Name,
			Mode:     p.Mode,
			Verified: p.Verified,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Add обрабатывает POST /api/v1/peers
// Сохраняет пира и сразу пытается к нему подключиться
func (h *PeersHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AddPeerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode add peer request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := models.SavedPeer{
		URL:      req.URL,
		Name:     req.Name,
		Mode:     req.Mode,
		Verified: req.Verified,
	}

	connected, err := h.node.AddPeer(ctx, p)
	if err != nil {
		if errors.Is(err, peer.ErrInvalidPeerURL) || errors.Is(err, node.ErrInvalidOptions) {
			h.logger.WarnContext(ctx, "invalid peer", slog.String("url", req.URL), slog.Any("error", err))
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to add peer", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "peer added", slog.String("url", req.URL), slog.Bool("connected", connected))

	sendJSON(h.logger, w, api.AddPeerResponse{URL: req.URL, Mode: req.Mode, Connected: connected}, http.StatusCreated)
}

// Connect обрабатывает GET /api/v1/peer
// Переводит соединение на websocket и передает его менеджеру пиров
func (h *PeersHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if h.acceptor == nil {
		sendError(h.logger, w, "peer connections are disabled", http.StatusServiceUnavailable)
		return
	}

	conn, err := transport.Upgrade(w, r, h.logger)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("failed to upgrade peer connection", slog.Any("error", err))
		return
	}

	// Сессия живет дольше запроса, рукопожатие ограничено своим таймаутом
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.handshakeTimeout)
	defer cancel()

	if _, err := h.acceptor.Attach(ctx, conn); err != nil {
		h.logger.Warn("inbound peer rejected", slog.String("remote_addr", r.RemoteAddr), slog.Any("error", err))
	}
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/isync/pkg/api"
)

// MaxHistoryLimit максимальное число записей журнала в одном ответе
const MaxHistoryLimit = 1000

// SyncHandler обрабатывает запросы статуса, принудительной синхронизации и журнала
type SyncHandler struct {
	logger *slog.Logger
	node   NodeService
}

// NewSyncHandler создает новый sync handler
func NewSyncHandler(logger *slog.Logger, node NodeService) *SyncHandler {
	return &SyncHandler{
		logger: logger,
		node:   node,
	}
}

// Status обрабатывает GET /api/v1/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, h.node.Status(r.Context()), http.StatusOK)
}

// SyncNow обрабатывает POST /api/v1/sync
// Отправляет текущее состояние всем подключенным пирам
func (h *SyncHandler) SyncNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := h.node.SyncNow(ctx)
	h.logger.InfoContext(ctx, "forced sync requested",
		slog.String("status", resp.Status),
		slog.Int("synced", resp.SyncedPeers),
		slog.Int("total", resp.TotalPeers))

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// History обрабатывает GET /api/v1/history?limit=N
func (h *SyncHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			h.logger.WarnContext(ctx, "invalid limit parameter", slog.String("limit", limitStr))
			sendError(h.logger, w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if limit > MaxHistoryLimit {
			limit = MaxHistoryLimit
		}
	}

	entries, err := h.node.History(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list sync history", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.HistoryResponse{Entries: make([]api.HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, api.HistoryEntry{
			CreatedAt:  e.CreatedAt,
			ID:         e.ID,
			PeerNodeID: e.PeerNodeID,
			PeerURL:    e.PeerURL,
			Direction:  e.Direction,
			Status:     e.Status,
			Detail:     e.Detail,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

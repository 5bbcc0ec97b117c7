package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/isync/pkg/api"
)

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger *slog.Logger
	nodeID string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, nodeID string) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		nodeID: nodeID,
	}
}

// Health обрабатывает GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, api.HealthResponse{Status: "ok", NodeID: h.nodeID}, http.StatusOK)
}

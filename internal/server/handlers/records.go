package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/node"
	"github.com/iudanet/isync/pkg/api"
)

// RecordsHandler обрабатывает чтение и изменение записей хранилища
type RecordsHandler struct {
	logger *slog.Logger
	node   NodeService
}

// NewRecordsHandler создает новый handler записей
func NewRecordsHandler(logger *slog.Logger, node NodeService) *RecordsHandler {
	return &RecordsHandler{
		logger: logger,
		node:   node,
	}
}

// List обрабатывает GET /api/v1/records
// Возвращает полный снимок хранилища {table: {record_id: {field: value}}}
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := h.node.Records(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read records", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		snapshot = models.Snapshot{}
	}

	sendJSON(h.logger, w, snapshot, http.StatusOK)
}

// Set обрабатывает PUT /api/v1/records/{table}/{id}/{field}
// Тело запроса: {"value": <любое JSON значение>}
func (h *RecordsHandler) Set(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	var req api.SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode set field request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Value) == 0 {
		sendError(h.logger, w, "value is required", http.StatusBadRequest)
		return
	}

	var value models.Value
	if err := json.Unmarshal(req.Value, &value); err != nil {
		sendError(h.logger, w, "invalid value", http.StatusBadRequest)
		return
	}

	if err := h.node.SetField(ctx, vars["table"], vars["id"], vars["field"], value); err != nil {
		h.sendFieldError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete обрабатывает DELETE /api/v1/records/{table}/{id}/{field}
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.node.DeleteField(r.Context(), vars["table"], vars["id"], vars["field"]); err != nil {
		h.sendFieldError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sendFieldError отображает ошибки изменения поля в HTTP статусы
func (h *RecordsHandler) sendFieldError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, node.ErrInvalidField), errors.Is(err, models.ErrInvalidValue):
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, node.ErrFieldNotFound):
		sendError(h.logger, w, err.Error(), http.StatusNotFound)
	case errors.Is(err, node.ErrFieldDeleted):
		sendError(h.logger, w, err.Error(), http.StatusConflict)
	default:
		h.logger.ErrorContext(r.Context(), "failed to update field",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
	}
}

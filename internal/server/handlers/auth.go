package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/isync/internal/crypto"
	"github.com/iudanet/isync/pkg/api"
)

// adminSubject субъект токенов, выданных по административному секрету
const adminSubject = "admin"

// AuthHandler выдает административные токены
type AuthHandler struct {
	logger      *slog.Logger
	nodeID      string
	adminSecret string
	jwtConfig   JWTConfig
}

// NewAuthHandler создает новый handler для авторизации.
// Пустой adminSecret отключает выдачу токенов.
func NewAuthHandler(logger *slog.Logger, nodeID, adminSecret string, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		nodeID:      nodeID,
		adminSecret: adminSecret,
		jwtConfig:   jwtConfig,
	}
}

// Token обрабатывает POST /api/v1/auth/token
// Обменивает административный секрет на JWT access token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.adminSecret == "" {
		sendError(h.logger, w, "admin API is disabled", http.StatusForbidden)
		return
	}

	var req api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode token request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Secret == "" {
		sendError(h.logger, w, "secret is required", http.StatusBadRequest)
		return
	}

	if !crypto.EqualSecrets(req.Secret, h.adminSecret) {
		h.logger.WarnContext(ctx, "invalid admin secret", slog.String("remote_addr", r.RemoteAddr))
		sendError(h.logger, w, "invalid secret", http.StatusUnauthorized)
		return
	}

	token, expiresIn, err := GenerateAccessToken(h.jwtConfig, h.nodeID, adminSubject, RoleAdmin)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "admin token issued", slog.String("remote_addr", r.RemoteAddr))

	sendJSON(h.logger, w, api.TokenResponse{AccessToken: token, ExpiresIn: expiresIn}, http.StatusOK)
}

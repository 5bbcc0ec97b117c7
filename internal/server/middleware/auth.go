package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/isync/internal/server/handlers"
	"github.com/iudanet/isync/pkg/api"
)

var (
	errMissingToken = errors.New("missing authorization header")
	errTokenFormat  = errors.New("authorization header must be \"Bearer <token>\"")
)

// AuthMiddleware пропускает к административным маршрутам узла nodeID только
// запросы с действующим токеном роли admin, выпущенным этим же узлом.
// Токен другого узла пула с тем же jwt_secret отклоняется.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig, nodeID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				logger.Warn("Admin request without valid authorization", "path", r.URL.Path, "error", err)
				writeAuthError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, token)
			if err != nil {
				logger.Warn("Invalid access token", "path", r.URL.Path, "error", err)
				writeAuthError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if claims.NodeID != nodeID {
				logger.Warn("Access token issued by another node", "token_node_id", claims.NodeID)
				writeAuthError(w, "token was issued by another node", http.StatusUnauthorized)
				return
			}

			if claims.Role != handlers.RoleAdmin {
				logger.Warn("Access token without admin role", "subject", claims.Subject, "role", claims.Role)
				writeAuthError(w, "admin role required", http.StatusForbidden)
				return
			}

			principal := handlers.Principal{Subject: claims.Subject, Role: claims.Role, NodeID: claims.NodeID}
			logger.Debug("Admin authenticated", "subject", principal.Subject, "path", r.URL.Path)

			next.ServeHTTP(w, r.WithContext(handlers.WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errTokenFormat
	}
	return strings.TrimSpace(token), nil
}

// writeAuthError отвечает в формате api.ErrorResponse, как остальные маршруты
func writeAuthError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

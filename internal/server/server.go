package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/isync/internal/server/handlers"
	"github.com/iudanet/isync/internal/server/middleware"
)

const (
	// DefaultRateLimit запросов в минуту с одного IP по умолчанию
	DefaultRateLimit = 120
	// shutdownTimeout время на завершение активных запросов при остановке
	shutdownTimeout = 5 * time.Second
)

// Config параметры HTTP сервера узла
type Config struct {
	NodeID           string
	Listen           string
	AdminSecret      string        // AdminSecret пустой - административные маршруты недоступны
	JWTSecret        []byte        // JWTSecret пустой - генерируется случайный при старте
	TokenTTL         time.Duration // TokenTTL время жизни административного токена
	HandshakeTimeout time.Duration
	RateLimit        int // RateLimit запросов в минуту с одного IP, 0 - без ограничения
}

// Server HTTP сервер узла: статус, административный API и websocket эндпоинт пиров
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
	logger     *slog.Logger
	router     *mux.Router
}

// New собирает маршруты и middleware. acceptor может быть nil.
func New(cfg Config, node handlers.NodeService, acceptor handlers.PeerAcceptor, logger *slog.Logger) (*Server, error) {
	secret := cfg.JWTSecret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
	}
	jwtConfig := handlers.JWTConfig{Secret: secret, AccessTokenTTL: cfg.TokenTTL}

	s := &Server{logger: logger}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	}

	health := handlers.NewHealthHandler(logger, cfg.NodeID)
	auth := handlers.NewAuthHandler(logger, cfg.NodeID, cfg.AdminSecret, jwtConfig)
	syncH := handlers.NewSyncHandler(logger, node)
	peersH := handlers.NewPeersHandler(logger, node, acceptor, cfg.HandshakeTimeout)
	records := handlers.NewRecordsHandler(logger, node)

	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingWithSkip(logger, []string{"/api/v1/health"}))
	r.Use(middleware.RateLimitMiddleware(s.limiter, logger))

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Methods(http.MethodGet).Path("/health").HandlerFunc(health.Health)
	v1.Methods(http.MethodGet).Path("/status").HandlerFunc(syncH.Status)
	v1.Methods(http.MethodGet).Path("/peer").HandlerFunc(peersH.Connect)
	v1.Methods(http.MethodPost).Path("/auth/token").HandlerFunc(auth.Token)

	admin := v1.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware(logger, jwtConfig, cfg.NodeID))
	admin.Methods(http.MethodPost).Path("/sync").HandlerFunc(syncH.SyncNow)
	admin.Methods(http.MethodGet).Path("/history").HandlerFunc(syncH.History)
	admin.Methods(http.MethodGet).Path("/peers").HandlerFunc(peersH.List)
	admin.Methods(http.MethodPost).Path("/peers").HandlerFunc(peersH.Add)
	admin.Methods(http.MethodGet).Path("/records").HandlerFunc(records.List)
	admin.Methods(http.MethodPut).Path("/records/{table}/{id}/{field}").HandlerFunc(records.Set)
	admin.Methods(http.MethodDelete).Path("/records/{table}/{id}/{field}").HandlerFunc(records.Delete)

	s.router = r
	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает адрес до отмены ctx, затем завершает активные запросы
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err, ok := <-errC:
		s.Close()
		if ok {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Close освобождает ресурсы middleware
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

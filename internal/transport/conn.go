// Package transport реализует дуплексный канал сообщений между пирами поверх websocket.
// Каждое сообщение - JSON кадр {"event", "data"}; входящие кадры разбираются
// циклом чтения и передаются обработчикам из таблицы Handlers.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/isync/pkg/api"
)

const (
	// writeTimeout максимальное время записи одного кадра
	writeTimeout = 10 * time.Second
	// pongWait время ожидания pong от пира
	pongWait = 60 * time.Second
	// pingPeriod период ping, должен быть меньше pongWait
	pingPeriod = pongWait * 9 / 10
	// maxFrameSize ограничение размера входящего кадра
	maxFrameSize = 16 << 20
)

// HandlerFunc обрабатывает данные одного входящего события.
// Вызывается синхронно из цикла чтения соединения.
type HandlerFunc func(ctx context.Context, data json.RawMessage) error

// Handlers таблица диспетчеризации: имя события -> обработчик
type Handlers map[string]HandlerFunc

// Conn дуплексный канал сообщений с пиром
//
//go:generate moq -out conn_mock.go . Conn
type Conn interface {
	// Emit отправляет событие; не ждет подтверждения от пира
	Emit(ctx context.Context, event string, payload any) error
	// Serve читает кадры и вызывает обработчики до закрытия соединения или отмены ctx
	Serve(ctx context.Context, handlers Handlers) error
	// Close закрывает соединение; повторный вызов безопасен
	Close() error
	// Done закрывается после закрытия соединения
	Done() <-chan struct{}
	// RemoteAddr адрес удаленной стороны
	RemoteAddr() string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsConn struct {
	conn      *websocket.Conn
	logger    *slog.Logger
	done      chan struct{}
	remote    string
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newConn(conn *websocket.Conn, remote string, logger *slog.Logger) *wsConn {
	return &wsConn{
		conn:   conn,
		logger: logger,
		done:   make(chan struct{}),
		remote: remote,
	}
}

// Dial подключается к пиру по адресу rawURL (http/https/ws/wss)
func Dial(ctx context.Context, rawURL string, logger *slog.Logger) (Conn, error) {
	wsURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}

	return newConn(conn, wsURL, logger), nil
}

// Upgrade переводит входящий HTTP запрос в websocket соединение.
// При ошибке ответ клиенту уже отправлен upgrader-ом.
func Upgrade(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}
	return newConn(conn, r.RemoteAddr, logger), nil
}

func (c *wsConn) RemoteAddr() string {
	return c.remote
}

func (c *wsConn) Done() <-chan struct{} {
	return c.done
}

func (c *wsConn) Emit(ctx context.Context, event string, payload any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(api.Frame{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to write %s: %w", event, err)
	}
	return nil
}

func (c *wsConn) Serve(ctx context.Context, handlers Handlers) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.keepalive(ctx)

	for {
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read frame: %w", err)
		}
		if mt != websocket.TextMessage {
			continue
		}

		// Любой входящий кадр подтверждает, что пир жив
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame api.Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			c.logger.Warn("Invalid frame", "remote", c.remote, "error", err)
			continue
		}

		handler, ok := handlers[frame.Event]
		if !ok {
			c.logger.Debug("Unhandled event", "remote", c.remote, "event", frame.Event)
			continue
		}

		if err := handler(ctx, frame.Data); err != nil {
			c.logger.Warn("Event handler failed", "remote", c.remote, "event", frame.Event, "error", err)
		}
	}
}

func (c *wsConn) keepalive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Отмена контекста должна прервать блокирующее чтение
			_ = c.Close()
			return
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)

		err = c.conn.Close()
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}
	})
	return err
}

package peer

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/transport"
	"github.com/iudanet/isync/pkg/api"
)

type frame struct {
	event string
	data  string
}

// newMockConn возвращает соединение, которое передает frames обработчикам
// сессии и затем ждет закрытия. emit подменяет отправку, nil - успех.
func newMockConn(frames []frame, emit func(event string, payload any) error) *transport.ConnMock {
	done := make(chan struct{})
	var closed atomic.Bool

	return &transport.ConnMock{
		EmitFunc: func(ctx context.Context, event string, payload any) error {
			if emit != nil {
				return emit(event, payload)
			}
			return nil
		},
		ServeFunc: func(ctx context.Context, handlers transport.Handlers) error {
			for _, f := range frames {
				if h, ok := handlers[f.event]; ok {
					if err := h(ctx, json.RawMessage(f.data)); err != nil {
						return err
					}
				}
			}
			select {
			case <-ctx.Done():
			case <-done:
			}
			return nil
		},
		CloseFunc: func() error {
			if closed.CompareAndSwap(false, true) {
				close(done)
			}
			return nil
		},
		DoneFunc:       func() <-chan struct{} { return done },
		RemoteAddrFunc: func() string { return "10.0.0.2:50000" },
	}
}

func emittedEvents(conn *transport.ConnMock) []string {
	var events []string
	for _, call := range conn.EmitCalls() {
		events = append(events, call.Event)
	}
	return events
}

func TestSession_Accept_HandshakeAndSyncData(t *testing.T) {
	engine := newEngine("local", DispositionMerged)
	conn := newMockConn([]frame{
		{event: api.EventPeerHandshake, data: `{"node_id":"remote"}`},
		{event: api.EventSyncData, data: `{"_encrypted":false,"source_node":"remote","source_type":"peer","timestamp":5,"data":{}}`},
	}, nil)

	sess := NewSession(engine, SessionConfig{URL: conn.RemoteAddr(), Mode: api.ModePlain, HandshakeTimeout: time.Second}, testLogger())
	require.NoError(t, sess.Accept(context.Background(), conn))
	defer sess.Close()

	assert.True(t, sess.Inbound())
	assert.Equal(t, "remote", sess.RemoteNodeID())

	require.Eventually(t, func() bool { return len(engine.HandleSyncDataCalls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	call := engine.HandleSyncDataCalls()[0]
	assert.Equal(t, "remote", call.From.NodeID)
	assert.Equal(t, api.ModePlain, call.From.Mode)
	assert.Equal(t, "remote", call.Env.SourceNode)

	require.Eventually(t, func() bool { return len(conn.EmitCalls()) >= 2 }, 2*time.Second, 10*time.Millisecond)
	events := emittedEvents(conn)
	assert.Equal(t, api.EventHandshakeResponse, events[0])
	assert.Contains(t, events, api.EventSyncData, "initial push after handshake")

	resp, ok := conn.EmitCalls()[0].Payload.(api.HandshakeResponse)
	require.True(t, ok)
	assert.Equal(t, api.HandshakeAccepted, resp.Status)
	assert.Equal(t, "local", resp.NodeID)

	sess.Close()
	assert.Equal(t, StateDisconnected, sess.State())
	assert.NotEmpty(t, conn.CloseCalls())
}

func TestSession_Accept_SelfHandshakeRejected(t *testing.T) {
	engine := newEngine("local", DispositionMerged)
	conn := newMockConn([]frame{{event: api.EventPeerHandshake, data: `{"node_id":"local"}`}}, nil)

	sess := NewSession(engine, SessionConfig{URL: conn.RemoteAddr(), HandshakeTimeout: time.Second}, testLogger())
	err := sess.Accept(context.Background(), conn)
	require.ErrorIs(t, err, ErrHandshakeRejected)

	resp, ok := conn.EmitCalls()[0].Payload.(api.HandshakeResponse)
	require.True(t, ok)
	assert.Equal(t, api.HandshakeRejected, resp.Status)
	assert.Equal(t, StateDisconnected, sess.State())
	assert.Empty(t, engine.EnvelopeCalls())
}

func TestSession_EmitFailureDisconnects(t *testing.T) {
	engine := newEngine("local", DispositionMerged)
	conn := newMockConn([]frame{{event: api.EventPeerHandshake, data: `{"node_id":"remote"}`}},
		func(event string, payload any) error {
			if event == api.EventSyncData {
				return errors.New("broken pipe")
			}
			return nil
		})

	var closedCalls atomic.Int32
	sess := NewSession(engine, SessionConfig{URL: conn.RemoteAddr(), HandshakeTimeout: time.Second}, testLogger(),
		WithOnClose(func(*Session) { closedCalls.Add(1) }))
	require.NoError(t, sess.Accept(context.Background(), conn))

	// Первая отправка после рукопожатия падает и закрывает сессию
	require.Eventually(t, func() bool { return sess.State() == StateDisconnected }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return closedCalls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, conn.CloseCalls())
	assert.ErrorIs(t, sess.Push(context.Background()), ErrSessionClosed)
}

func TestSession_Accept_ConnectionLostDuringHandshake(t *testing.T) {
	engine := newEngine("local", DispositionMerged)
	conn := newMockConn(nil, nil)
	conn.ServeFunc = func(ctx context.Context, handlers transport.Handlers) error {
		return errors.New("connection reset")
	}

	sess := NewSession(engine, SessionConfig{URL: conn.RemoteAddr(), HandshakeTimeout: 2 * time.Second}, testLogger())
	err := sess.Accept(context.Background(), conn)
	require.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, StateDisconnected, sess.State())
	assert.Empty(t, conn.EmitCalls())
}

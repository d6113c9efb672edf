package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"courier/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096

	// sendBufferSize is how many events may wait for a slow peer before it is dropped.
	sendBufferSize = 64
)

var (
	errSessionClosed  = errors.New("websocket session is closed")
	errSendBufferFull = errors.New("websocket send buffer is full")
)

// session wraps one websocket connection. Send only queues; a single writePump goroutine
// owns every write, since gorilla allows one concurrent writer.
type session struct {
	conn *websocket.Conn
	send chan ports.Event
	once sync.Once
	done chan struct{}
}

var _ ports.AgentSession = (*session)(nil)

func newSession(conn *websocket.Conn) *session {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	s := &session{
		conn: conn,
		send: make(chan ports.Event, sendBufferSize),
		done: make(chan struct{}),
	}
	go s.writePump()
	return s
}

// Send queues event without blocking. It fails once the session is closed or when the
// peer has fallen sendBufferSize events behind.
func (s *session) Send(_ context.Context, event ports.Event) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- event:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close stops the session. Events queued before Close are still flushed, followed by a
// close frame. Safe to call more than once.
func (s *session) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case event := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(event); err != nil {
				_ = s.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = s.Close()
				return
			}
		case <-s.done:
			s.flush()
			return
		}
	}
}

// flush writes what is still queued under one shared deadline, then says goodbye.
func (s *session) flush() {
	deadline := time.Now().Add(writeWait)
	_ = s.conn.SetWriteDeadline(deadline)
	for {
		select {
		case event := <-s.send:
			if err := s.conn.WriteJSON(event); err != nil {
				return
			}
		default:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}

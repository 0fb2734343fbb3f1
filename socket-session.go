package gorelay

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// SessionHandler receives inbound traffic from a SocketSession. HandleFrame
// is called from the session's read goroutine, one frame at a time, so every
// inbound event is handled to completion before the next for that
// connection. HandleClose fires exactly once when the transport closes.
type SessionHandler interface {
	HandleFrame(id string, data []byte)
	HandleClose(id string)
}

// SessionOptions tune a SocketSession. Zero values fall back to a 255-frame
// send buffer, a 10-second ping interval and the default slog logger.
type SessionOptions struct {
	SendBuffer   int
	PingInterval time.Duration
	Slogger      *slog.Logger
}

// SocketSession owns one WebSocket connection: a read loop feeding the
// handler and a write loop draining the send buffer.
type SocketSession struct {
	// The key bit - the web-socket connection
	conn net.Conn
	// The reference bit
	id string

	// The message bit
	send    chan []byte
	handler SessionHandler

	pingInterval time.Duration

	// The concurrency bit
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	Slogger *slog.Logger
}

func NewSocketSession(conn net.Conn, id string, handler SessionHandler, opts SessionOptions) *SocketSession {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 255
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = time.Second * 10
	}
	if opts.Slogger == nil {
		opts.Slogger = slog.Default()
	}
	s := &SocketSession{
		conn:         conn,
		id:           id,
		send:         make(chan []byte, opts.SendBuffer),
		handler:      handler,
		pingInterval: opts.PingInterval,
		ctx:          ctx,
		cancel:       cancel,
		wg:           sync.WaitGroup{},
		Slogger:      opts.Slogger.With("conn", id),
	}

	// START
	s.wg.Add(1)
	go func() {
		s.ReadLoop()
		s.wg.Done()
	}()
	s.wg.Add(1)
	go func() {
		s.WriteLoop()
		s.wg.Done()
	}()
	return s
}

// ID returns the opaque connection identity assigned at upgrade time.
func (s *SocketSession) ID() string {
	return s.id
}

func (s *SocketSession) Close() {
	s.cancel()
	s.conn.Close()
	s.wg.Wait()
}

func (s *SocketSession) ReadLoop() {
	sl := s.Slogger.With("func", "session.ReadLoop")
	sl.Debug("starting")
	defer func() {
		s.conn.Close()
		s.cancel()
		sl.Debug("ReadLoop exited")
	}()
	for {
		msg, _, err := wsutil.ReadClientData(s.conn)
		if err != nil {
			var er wsutil.ClosedError
			if errors.As(err, &er) {
				sl.Debug("ReadLoop closing", "reason", er.Reason)
			} else {
				sl.Error("ReadLoop error", "err", err)
			}
			// notify for ANY error that terminates the loop.
			s.handler.HandleClose(s.id)
			return
		}
		s.handler.HandleFrame(s.id, msg)
	}
}

func (s *SocketSession) WriteLoop() {
	sl := s.Slogger.With("func", "session.WriteLoop")
	sl.Debug("starting")
	ticker := time.NewTicker(s.pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.cancel()
		sl.Debug("WriteLoop exited")
	}()
	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			wsutil.WriteServerText(s.conn, msg)
		case <-ticker.C:
			sl.Log(context.Background(), slog.Level(-8), "ping")
			wsutil.WriteServerMessage(s.conn, ws.OpPing, []byte("ping"))
		case <-s.ctx.Done():
			return
		}
	}
}

// Send queues message for delivery. Non-blocking: a session whose buffer is
// full is falling behind or already gone, and the frame is dropped rather
// than stalling the caller.
func (s *SocketSession) Send(message []byte) {
	select {
	case s.send <- message:
	default:
		s.Slogger.Warn("send buffer full; dropping frame")
	}
}

package gorelay

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// SocketSessioner is the session surface the Hub needs; satisfied by
// SocketSession and by mocks in tests.
type SocketSessioner interface {
	ID() string
	Send(message []byte)
	Close()
}

// Frame is the outbound wire envelope: an event name plus its payload.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is the WebSocket Gateway: it tracks which connections are subscribed
// to which rooms and fans outbound events out to the right subset.
//
// Subscriptions mirror the pub/sub rooms of the original transport: a
// connection that re-joins without leaving stays subscribed to its old room
// as well, so it keeps receiving that room's traffic until a leave or
// disconnect clears it.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]SocketSessioner
	rooms    map[string]map[string]struct{}

	Slogger *slog.Logger
}

func NewHub(slogger *slog.Logger) *Hub {
	if slogger == nil {
		slogger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]SocketSessioner),
		rooms:    make(map[string]map[string]struct{}),
		Slogger:  slogger,
	}
}

// Attach makes a session addressable. It receives nothing until it
// subscribes to a room or is targeted directly.
func (h *Hub) Attach(ss SocketSessioner) {
	h.mu.Lock()
	h.sessions[ss.ID()] = ss
	h.mu.Unlock()
}

// Detach removes a session and all of its room subscriptions.
func (h *Hub) Detach(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	for _, subs := range h.rooms {
		delete(subs, id)
	}
	h.mu.Unlock()
}

// Subscribe adds the connection to room's delivery set.
func (h *Hub) Subscribe(id, room string) {
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]struct{})
	}
	h.rooms[room][id] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe removes the connection from room's delivery set.
func (h *Hub) Unsubscribe(id, room string) {
	h.mu.Lock()
	if subs, ok := h.rooms[room]; ok {
		delete(subs, id)
	}
	h.mu.Unlock()
}

// SendToRoom delivers event to every connection subscribed to room.
func (h *Hub) SendToRoom(room, event string, payload any) {
	h.fanout(room, event, payload, "")
}

// SendToRoomExcept delivers event to every connection subscribed to room
// other than except.
func (h *Hub) SendToRoomExcept(room string, except string, event string, payload any) {
	h.fanout(room, event, payload, except)
}

// SendToConn delivers event to a single connection, subscribed or not.
func (h *Hub) SendToConn(id string, event string, payload any) {
	buf, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		h.Slogger.Error("marshalling frame", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	ss, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		h.Slogger.Debug("session not found", "conn", id)
		return
	}
	ss.Send(buf)
}

func (h *Hub) fanout(room, event string, payload any, except string) {
	buf, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		h.Slogger.Error("marshalling frame", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	targets := make([]SocketSessioner, 0, len(h.rooms[room]))
	for id := range h.rooms[room] {
		if id == except {
			continue
		}
		if ss, ok := h.sessions[id]; ok {
			targets = append(targets, ss)
		}
	}
	h.mu.RUnlock()

	h.Slogger.Debug("fanout", "room", room, "event", event, "targets", len(targets))
	lo.ForEach(targets, func(ss SocketSessioner, _ int) {
		ss.Send(buf)
	})
}

// Shutdown closes every attached session and forgets all subscriptions.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	sessions := lo.Values(h.sessions)
	h.sessions = make(map[string]SocketSessioner)
	h.rooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, ss := range sessions {
		ss.Close() // blocking
	}
	h.Slogger.Info("hub shut down", "sessions", len(sessions))
}

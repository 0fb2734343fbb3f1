package gorelay

import (
	"encoding/json"
	"log/slog"
)

// Inbound event names accepted from clients.
const (
	inboundJoin    = "join"
	inboundLeave   = "leave"
	inboundMessage = "message"
	inboundTyping  = "typing"
)

// ClientFrame is the inbound wire format. All fields are free-form text
// supplied by the remote end; nothing is validated beyond JSON shape.
type ClientFrame struct {
	Event    string `json:"event"`
	Username string `json:"username"`
	Room     string `json:"room"`
	Message  string `json:"message"`
	IsTyping bool   `json:"is_typing"`
}

// Relay wires the core (Registry, Store, Router) to the WebSocket transport
// (Hub, sessions). It implements SessionHandler: each connection's frames
// are dispatched from that connection's read goroutine, so per-connection
// ordering holds while distinct rooms proceed in parallel.
type Relay struct {
	Registry *Registry[string]
	Store    *Store
	Hub      *Hub
	Router   *Router[string]

	cfg Config

	Slogger *slog.Logger
}

func NewRelay(cfg Config, slogger *slog.Logger) *Relay {
	if slogger == nil {
		slogger = slog.Default()
	}
	registry := NewRegistry[string]()
	store := NewStore()
	hub := NewHub(slogger)
	router := NewRouter[string](registry, store, hub, RouterOptions{Slogger: slogger})

	// The default room exists before any client connects.
	store.EnsureRoom(cfg.DefaultRoom)

	return &Relay{
		Registry: registry,
		Store:    store,
		Hub:      hub,
		Router:   router,
		cfg:      cfg,
		Slogger:  slogger,
	}
}

// HandleFrame decodes one client frame and runs the matching router
// transition. Malformed or unknown frames are logged and ignored.
func (rly *Relay) HandleFrame(id string, data []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		rly.Slogger.Error("malformed frame ignored", "conn", id, "err", err)
		return
	}
	switch frame.Event {
	case inboundJoin:
		rly.Hub.Subscribe(id, frame.Room)
		rly.Router.HandleJoin(id, frame.Username, frame.Room)
	case inboundLeave:
		rly.Hub.Unsubscribe(id, frame.Room)
		rly.Router.HandleLeave(id, frame.Username, frame.Room)
	case inboundMessage:
		rly.Router.HandleMessage(id, frame.Username, frame.Message, frame.Room)
	case inboundTyping:
		rly.Router.HandleTyping(id, frame.Username, frame.Room, frame.IsTyping)
	default:
		rly.Slogger.Debug("unknown event ignored", "conn", id, "event", frame.Event)
	}
}

// HandleClose runs the disconnect transition, then drops the session from
// the hub. Order matters: user_left and update_users still reach the room
// while the departing session is being torn down.
func (rly *Relay) HandleClose(id string) {
	rly.Router.HandleDisconnect(id)
	rly.Hub.Detach(id)
}

// Shutdown closes all live sessions.
func (rly *Relay) Shutdown() {
	rly.Hub.Shutdown()
}

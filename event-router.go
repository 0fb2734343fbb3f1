package gorelay

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ReplayLimit is the number of history messages replayed to a connection
// joining a room. Independent of MaxHistory.
const ReplayLimit = 50

// RouterOptions tune a Router. Zero values fall back to wall-clock time,
// random UUIDs and the default slog logger.
type RouterOptions struct {
	Now     func() time.Time
	NewID   func() string
	Slogger *slog.Logger
}

// Router receives inbound connection events, mutates the Registry and Store
// under their consistency discipline, and asks the Gateway to deliver the
// resulting outbound events. One Router serves all rooms; per-room ordering
// comes from the Store's per-room locking.
type Router[ConnID comparable] struct {
	registry *Registry[ConnID]
	store    *Store
	gateway  Gateway[ConnID]

	now   func() time.Time
	newID func() string

	Slogger *slog.Logger
}

func NewRouter[ConnID comparable](registry *Registry[ConnID], store *Store, gateway Gateway[ConnID], opts RouterOptions) *Router[ConnID] {
	rt := &Router[ConnID]{
		registry: registry,
		store:    store,
		gateway:  gateway,
		now:      opts.Now,
		newID:    opts.NewID,
		Slogger:  opts.Slogger,
	}
	if rt.now == nil {
		rt.now = time.Now
	}
	if rt.newID == nil {
		rt.newID = uuid.NewString
	}
	if rt.Slogger == nil {
		rt.Slogger = slog.Default()
	}
	return rt
}

// HandleConnect records a transport-level connection. No state changes until
// the client joins a room.
func (rt *Router[ConnID]) HandleConnect(id ConnID) {
	rt.Slogger.Info("client connected", "conn", id)
}

// HandleDisconnect cleans up after a closed connection. Idempotent: if an
// explicit leave already cleared the association, nothing is emitted.
func (rt *Router[ConnID]) HandleDisconnect(id ConnID) {
	sess, ok := rt.registry.Unregister(id)
	if !ok {
		rt.Slogger.Debug("client disconnected without association", "conn", id)
		return
	}
	rt.Slogger.Info("client disconnected", "conn", id, "username", sess.Username, "room", sess.Room)
	rt.store.RemoveMember(sess.Room, sess.Username)
	rt.announceLeft(sess.Room, sess.Username)
}

// HandleJoin puts the connection into room, creating it if absent. The new
// member sees a replay of recent history; everyone in the room, joiner
// included, sees user_joined followed by the refreshed member list.
//
// A join while already joined elsewhere overwrites the registry association
// but leaves the old room's member entry behind until that room processes a
// leave or disconnect for the username. Known quirk, kept as observed.
func (rt *Router[ConnID]) HandleJoin(id ConnID, username, room string) {
	sl := rt.Slogger.With("func", "router.HandleJoin")
	sl.Debug("joining", "conn", id, "username", username, "room", room)

	rt.store.EnsureRoom(room)
	rt.registry.Register(id, username, room)
	rt.store.AddMember(room, username)

	ts := clockstamp(rt.now())
	rt.gateway.SendToRoom(room, EventUserJoined, PresenceNotice{
		Username:  username,
		Text:      username + " joined the room",
		Timestamp: ts,
	})
	for _, msg := range rt.store.RecentMessages(room, ReplayLimit) {
		rt.gateway.SendToConn(id, EventMessage, msg)
	}
	rt.gateway.SendToRoom(room, EventUpdateUsers, rt.userList(room))
}

// HandleLeave removes the connection from room. The registry association is
// dropped unconditionally so that the eventual disconnect stays silent.
func (rt *Router[ConnID]) HandleLeave(id ConnID, username, room string) {
	sl := rt.Slogger.With("func", "router.HandleLeave")
	sl.Debug("leaving", "conn", id, "username", username, "room", room)

	rt.store.RemoveMember(room, username)
	rt.registry.Unregister(id)
	rt.announceLeft(room, username)
}

// HandleMessage appends a freshly stamped message to the room's history and
// fans it out to every member, sender included. Messages for rooms that were
// never joined are dropped silently; join creates rooms, message does not.
func (rt *Router[ConnID]) HandleMessage(id ConnID, username, text, room string) {
	msg := Message{
		ID:        rt.newID(),
		Username:  username,
		Text:      text,
		Timestamp: clockstamp(rt.now()),
	}
	if !rt.store.AppendMessage(room, msg) {
		rt.Slogger.Debug("message for unknown room dropped", "conn", id, "room", room)
		return
	}
	rt.gateway.SendToRoom(room, EventMessage, msg)
}

// HandleTyping relays a typing-status signal to everyone in the room except
// the sender. No state is touched.
func (rt *Router[ConnID]) HandleTyping(id ConnID, username, room string, isTyping bool) {
	rt.gateway.SendToRoomExcept(room, id, EventUserTyping, TypingNotice{
		Username: username,
		IsTyping: isTyping,
	})
}

func (rt *Router[ConnID]) announceLeft(room, username string) {
	rt.gateway.SendToRoom(room, EventUserLeft, PresenceNotice{
		Username:  username,
		Text:      username + " left the room",
		Timestamp: clockstamp(rt.now()),
	})
	rt.gateway.SendToRoom(room, EventUpdateUsers, rt.userList(room))
}

func (rt *Router[ConnID]) userList(room string) UserList {
	users := rt.store.Members(room)
	if users == nil {
		users = []string{}
	}
	return UserList{Users: users}
}

// clockstamp renders wall-clock time as hours:minutes:seconds, matching the
// display format clients expect. History ordering relies on append order,
// never on this string.
func clockstamp(t time.Time) string {
	return t.Format("15:04:05")
}

package gorelay

import "sync"

// Session is the (username, room) association held for a live connection.
type Session struct {
	Username string
	Room     string
}

// Registry is the authoritative map of live connection to Session. It is the
// single source of truth for "who is where"; member lists in the Store are a
// projection of it. Absence is not an error: lookups report a second boolean
// result instead.
type Registry[ConnID comparable] struct {
	mu       sync.RWMutex
	sessions map[ConnID]Session
}

func NewRegistry[ConnID comparable]() *Registry[ConnID] {
	return &Registry[ConnID]{
		sessions: make(map[ConnID]Session),
	}
}

// Register associates id with the given username and room, replacing any
// prior association. Member-list upkeep is the caller's responsibility.
func (reg *Registry[ConnID]) Register(id ConnID, username, room string) {
	reg.mu.Lock()
	reg.sessions[id] = Session{Username: username, Room: room}
	reg.mu.Unlock()
}

// Unregister removes and returns the prior association for id. Idempotent:
// a second call reports false.
func (reg *Registry[ConnID]) Unregister(id ConnID) (Session, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	sess, ok := reg.sessions[id]
	if ok {
		delete(reg.sessions, id)
	}
	return sess, ok
}

// Lookup returns the current association for id, if any.
func (reg *Registry[ConnID]) Lookup(id ConnID) (Session, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	sess, ok := reg.sessions[id]
	return sess, ok
}

// Len reports the number of live associations.
func (reg *Registry[ConnID]) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.sessions)
}

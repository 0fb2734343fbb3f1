package gorelay

import (
	"slices"
	"sync"
)

// MaxHistory caps the number of messages retained per room. Once exceeded
// the oldest messages are truncated without notification.
const MaxHistory = 100

// roomState holds one room's member list and bounded message history. Each
// room has its own mutex so that operations on distinct rooms never contend;
// all mutations and reads for a given room are linearized against it.
type roomState struct {
	mu      sync.Mutex
	members []string
	history []Message
}

// Store owns the mapping from room name to room state. Rooms are created
// lazily and never removed; a room with zero members persists empty.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*roomState
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*roomState),
	}
}

// EnsureRoom creates an empty room under name if absent.
func (s *Store) EnsureRoom(name string) {
	s.mu.Lock()
	if _, ok := s.rooms[name]; !ok {
		s.rooms[name] = &roomState{}
	}
	s.mu.Unlock()
}

// HasRoom reports whether a room exists. Messages to unknown rooms are
// dropped rather than creating the room, unlike join.
func (s *Store) HasRoom(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[name]
	return ok
}

func (s *Store) room(name string) *roomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[name]
}

// AddMember appends username to the room's member list unless already
// present. Insertion order is preserved. No-op for an unknown room.
func (s *Store) AddMember(name, username string) {
	rs := s.room(name)
	if rs == nil {
		return
	}
	rs.mu.Lock()
	if !slices.Contains(rs.members, username) {
		rs.members = append(rs.members, username)
	}
	rs.mu.Unlock()
}

// RemoveMember removes username from the room's member list if present.
func (s *Store) RemoveMember(name, username string) {
	rs := s.room(name)
	if rs == nil {
		return
	}
	rs.mu.Lock()
	if idx := slices.Index(rs.members, username); idx >= 0 {
		rs.members = slices.Delete(rs.members, idx, idx+1)
	}
	rs.mu.Unlock()
}

// AppendMessage appends msg to the room's history, truncating from the front
// once the history exceeds MaxHistory. Reports false for an unknown room, in
// which case the message is discarded.
func (s *Store) AppendMessage(name string, msg Message) bool {
	rs := s.room(name)
	if rs == nil {
		return false
	}
	rs.mu.Lock()
	rs.history = append(rs.history, msg)
	if len(rs.history) > MaxHistory {
		rs.history = rs.history[len(rs.history)-MaxHistory:]
	}
	rs.mu.Unlock()
	return true
}

// RecentMessages returns the last limit messages in chronological order, or
// fewer if the history is shorter. The returned slice is a copy.
func (s *Store) RecentMessages(name string, limit int) []Message {
	rs := s.room(name)
	if rs == nil {
		return nil
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	start := len(rs.history) - limit
	if start < 0 {
		start = 0
	}
	return slices.Clone(rs.history[start:])
}

// Members returns a snapshot of the room's member list in insertion order.
func (s *Store) Members(name string) []string {
	rs := s.room(name)
	if rs == nil {
		return nil
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return slices.Clone(rs.members)
}

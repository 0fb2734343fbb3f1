package gorelay

// Outbound event names understood by connected clients.
const (
	EventMessage     = "message"
	EventUserJoined  = "user_joined"
	EventUserLeft    = "user_left"
	EventUpdateUsers = "update_users"
	EventUserTyping  = "user_typing"
)

// Message is a single chat message as stored in a room's history and as
// delivered on the wire. Immutable once created.
type Message struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// PresenceNotice is the payload for user_joined and user_left events.
type PresenceNotice struct {
	Username  string `json:"username"`
	Text      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// UserList is the payload for update_users events. Users preserves the
// room's insertion order.
type UserList struct {
	Users []string `json:"users"`
}

// TypingNotice is the payload for user_typing events.
type TypingNotice struct {
	Username string `json:"username"`
	IsTyping bool   `json:"is_typing"`
}

package gorelay

// Gateway delivers outbound events to connections. The Router drives it and
// never expects a call back into its own state; delivery is fire-and-forget.
// Implementations decide what "subscribed to a room" means for their
// transport (see Hub for the WebSocket one).
type Gateway[ConnID comparable] interface {
	// SendToRoom delivers event to every connection subscribed to room.
	SendToRoom(room, event string, payload any)
	// SendToConn delivers event to a single connection.
	SendToConn(id ConnID, event string, payload any)
	// SendToRoomExcept delivers event to every connection subscribed to
	// room other than except.
	SendToRoomExcept(room string, except ConnID, event string, payload any)
}

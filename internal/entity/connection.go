package entity

// ConnectionState is the explicit lifecycle of a live socket. A connection is
// only discoverable by the matchmaker while searching; after a finished game
// it goes back to idle and has to request a match again.
type ConnectionState string

const (
	StateIdle      ConnectionState = "idle"
	StateSearching ConnectionState = "searching"
	StateInRoom    ConnectionState = "in_room"
	StateOffline   ConnectionState = "offline"
)

// Connection represents one live client socket. Never persisted.
type Connection struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Mark   string          `json:"mark,omitempty"`
	State  ConnectionState `json:"state"`
}

// IsAnonymous - true when the token was missing or rejected.
func (that *Connection) IsAnonymous() bool {
	return that.UserID == ""
}

func (that *Connection) IsSearching() bool {
	return that.State == StateSearching
}

func (that *Connection) IsInRoom() bool {
	return that.State == StateInRoom
}

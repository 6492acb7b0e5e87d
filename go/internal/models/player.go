package models

// Player is a roster entry keyed by the durable player identifier.
type Player struct {
	ID        string `json:"player_id"`
	Username  string `json:"username"`
	Connected bool   `json:"is_connected"`
	Ready     bool   `json:"is_ready"`
	Points    int    `json:"points"`
}

// ConnectionRecord binds one physical connection to a durable player and to a
// game instance. A record can be bound to a game it may reconnect to before it
// has actually joined the roster.
type ConnectionRecord struct {
	ConnectionID string `json:"connection_id"`
	PlayerID     string `json:"player_id"`
	GameID       string `json:"game_id,omitempty"`
	Joined       bool   `json:"joined"`

	// set once the physical connection has dropped; the record then only
	// blocks late writes until it expires
	Closed bool `json:"closed,omitempty"`
}

// IsBound reports whether the connection is attached to a game instance.
func (r ConnectionRecord) IsBound() bool {
	return r.GameID != ""
}

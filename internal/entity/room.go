package entity

// Room represents one active game: exactly two participants and the board
// they share. The room manager is the only writer once the room exists.
type Room struct {
	ID      string
	Game    *Game
	Players [2]*Connection
}

func NewRoom(id string, playerA, playerB *Connection) *Room {
	return &Room{
		ID:      id,
		Game:    NewGame(RandomFirstTurn()),
		Players: [2]*Connection{playerA, playerB},
	}
}

// Participant - returns the player with the given connection id, or nil.
func (that *Room) Participant(connID string) *Connection {
	for _, player := range that.Players {
		if player != nil && player.ID == connID {
			return player
		}
	}
	return nil
}

// Opponent - returns the other participant, or nil for a degenerate room.
func (that *Room) Opponent(connID string) *Connection {
	for _, player := range that.Players {
		if player != nil && player.ID != connID {
			return player
		}
	}
	return nil
}

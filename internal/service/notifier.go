package service

// Notifier pushes game events to a single connection. The websocket transport
// implements it; tests use a recording fake.
type Notifier interface {
	OpponentFound(connID, opponentName, yourMark, firstTurn string) error
	OpponentNotFound(connID string) error
	MoveApplied(connID string, cell int, turn string) error
	GameWon(connID, winnerMark string) error
	GameTied(connID string) error
}

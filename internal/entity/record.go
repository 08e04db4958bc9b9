package entity

import "time"

const (
	RecordTypeWin  = "win"
	RecordTypeTied = "tied"
)

// Record is one finished match in the persisted history.
type Record struct {
	ID        string    `json:"id"`
	PlayerA   string    `json:"player_a"`
	PlayerB   string    `json:"player_b"`
	WinnerID  string    `json:"winner_id,omitempty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchResult is what the room manager hands to the outcome reporter once
// per room, right after the terminal transition.
type MatchResult struct {
	PlayerA  string
	PlayerB  string
	WinnerID string
	Type     string
}

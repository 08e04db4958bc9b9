package websocket

import "encoding/json"

// Client -> server actions.
const (
	actionRequestToPlay = "request_to_play"
	actionMove          = "move"
)

// Server -> client actions.
const (
	actionOpponentFound    = "opponent_found"
	actionOpponentNotFound = "opponent_not_found"
	actionMoveApplied      = "move_applied"
	actionGameWon          = "game_won"
	actionGameTied         = "game_tied"
	actionError            = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries every field the protocol uses; unset fields are omitted.
type Payload struct {
	Token        string `json:"token,omitempty"`
	Index        *int   `json:"index,omitempty"`
	Turn         string `json:"turn,omitempty"`
	OpponentName string `json:"opponent_name,omitempty"`
	YourMark     string `json:"your_mark,omitempty"`
	FirstTurn    string `json:"first_turn,omitempty"`
	Winner       string `json:"winner,omitempty"`
	Error        string `json:"error,omitempty"`
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool   // whether this frame is the last one of the message
	opCode  byte   // operation code (text message, close, and so on)
	length  uint64 // payload length
	payload []byte // frame payload
}

const (
	opCodeText  byte = 1
	opCodeClose byte = 8
)

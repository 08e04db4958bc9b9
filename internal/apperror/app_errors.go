package apperror

import "errors"

var (
	ErrInvalidCell        = errors.New("invalid cell index")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrGameFinished       = errors.New("game is already finished")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnauthenticated    = errors.New("token is invalid or missing")
)

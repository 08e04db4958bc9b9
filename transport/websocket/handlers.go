package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rivalplay/arena-backend/internal/apperror"
)

func (that *Server) handleRequestToPlay(ctx context.Context, connID string, msg *Message) error {
	var payload Payload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := that.matchmaker.RequestToPlay(ctx, connID, payload.Token); err != nil {
		return fmt.Errorf("failed to request a match: %w", err)
	}

	return nil
}

func (that *Server) handleMove(ctx context.Context, connID string, msg *Message) error {
	log := that.logger.With("method", "handleMove", "connID", connID)

	var payload Payload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Index == nil {
		// malformed move, dropped like any other invalid move
		log.Debug("move without index dropped")
		return nil
	}

	that.rooms.SubmitMove(ctx, connID, *payload.Index)

	return nil
}

// The methods below implement service.Notifier.

func (that *Server) OpponentFound(connID, opponentName, yourMark, firstTurn string) error {
	return that.send(connID, actionOpponentFound, Payload{
		OpponentName: opponentName,
		YourMark:     yourMark,
		FirstTurn:    firstTurn,
	})
}

func (that *Server) OpponentNotFound(connID string) error {
	return that.send(connID, actionOpponentNotFound, Payload{})
}

func (that *Server) MoveApplied(connID string, cell int, turn string) error {
	return that.send(connID, actionMoveApplied, Payload{
		Index: &cell,
		Turn:  turn,
	})
}

func (that *Server) GameWon(connID, winnerMark string) error {
	return that.send(connID, actionGameWon, Payload{Winner: winnerMark})
}

func (that *Server) GameTied(connID string) error {
	return that.send(connID, actionGameTied, Payload{})
}

// sendError - tells the client its envelope was not understood. The
// connection stays open; only well-formed messages are acted on.
func (that *Server) sendError(connID, text string) {
	if err := that.send(connID, actionError, Payload{Error: text}); err != nil {
		that.logger.Debug("failed to send error reply", "connID", connID, "error", err)
	}
}

func (that *Server) send(connID, action string, payload Payload) error {
	client, ok := that.client(connID)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrConnectionNotFound, connID)
	}

	if err := that.sendMessage(client, action, payload); err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}

	return nil
}

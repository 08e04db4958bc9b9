package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/pkg"
)

type tokenVerifier interface {
	VerifyToken(tokenString string) (*TokenClaims, error)
}

// Matchmaker pairs a requesting connection with the first eligible waiting
// one. There is no skill matching: first found in registration order wins.
type Matchmaker struct {
	logger   *slog.Logger
	registry *Registry
	rooms    *RoomManager
	auth     tokenVerifier
	notifier Notifier
}

func NewMatchmaker(logger *slog.Logger, registry *Registry, rooms *RoomManager, auth tokenVerifier, notifier Notifier) *Matchmaker {
	return &Matchmaker{
		logger:   logger,
		registry: registry,
		rooms:    rooms,
		auth:     auth,
		notifier: notifier,
	}
}

// RequestToPlay - resolves the identity behind the token and either pairs
// the connection with a waiting opponent or leaves it discoverable. A bad
// token degrades to anonymous play instead of rejecting the request.
func (that *Matchmaker) RequestToPlay(ctx context.Context, connID, token string) error {
	log := that.logger.With("method", "RequestToPlay", "connID", connID)

	var name, userID string
	claims, err := that.auth.VerifyToken(token)
	if err != nil {
		log.Debug("token rejected, continuing as anonymous", "error", err)
	} else {
		name = claims.Name
		userID = claims.UserID
	}

	// a re-request while still in a room is an implicit forfeit
	that.rooms.ForfeitActiveRoom(ctx, connID)

	that.registry.MarkReady(connID, name, userID)

	requester, opponent, paired := that.registry.ClaimPair(connID)
	if !paired {
		conn, ok := that.registry.Get(connID)
		if !ok {
			return fmt.Errorf("%w: %s", apperror.ErrConnectionNotFound, connID)
		}

		if conn.IsInRoom() {
			log.Info("already paired by a concurrent request")
			return nil
		}

		log.Info("no eligible opponent, connection keeps searching")
		if err = that.notifier.OpponentNotFound(connID); err != nil {
			return fmt.Errorf("failed to send searching notice: %w", err)
		}
		return nil
	}

	room := that.rooms.CreateRoom(pkg.GenerateRoomID(), opponent, requester)

	log.Info("opponents paired", "roomID", room.ID, "opponentID", opponent.ID)

	if err = that.notifier.OpponentFound(requester.ID, opponent.Name, requester.Mark, room.Game.Turn); err != nil {
		log.Error("failed to notify requester", "error", err)
	}

	if err = that.notifier.OpponentFound(opponent.ID, requester.Name, opponent.Mark, room.Game.Turn); err != nil {
		log.Error("failed to notify opponent", "error", err)
	}

	return nil
}

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rivalplay/arena-backend/internal/entity"
)

// RoomManager owns every active room. Incoming moves are routed to the room
// by connection id through a single index; rooms never attach their own
// per-connection listeners, so a connection can play any number of matches
// in sequence without leaking handlers.
type RoomManager struct {
	logger   *slog.Logger
	registry *Registry
	reporter OutcomeReporter
	notifier Notifier

	mu     sync.RWMutex
	rooms  map[string]*activeRoom
	byConn map[string]string
}

// activeRoom guards one room: every terminal transition checks-and-sets the
// terminal flag under the room mutex before any persistence call, so a
// move-driven ending and a disconnect-driven ending can never both report.
type activeRoom struct {
	mu       sync.Mutex
	room     *entity.Room
	terminal bool
}

func NewRoomManager(logger *slog.Logger, registry *Registry, reporter OutcomeReporter, notifier Notifier) *RoomManager {
	return &RoomManager{
		logger:   logger,
		registry: registry,
		reporter: reporter,
		notifier: notifier,

		rooms:  make(map[string]*activeRoom),
		byConn: make(map[string]string),
	}
}

// CreateRoom - pairs two connections into a new room. The discovered
// opponent plays X, the requester plays O; the first turn is random.
func (that *RoomManager) CreateRoom(roomID string, opponent, requester *entity.Connection) *entity.Room {
	that.registry.BindRoom(opponent.ID, entity.PlayerX)
	that.registry.BindRoom(requester.ID, entity.PlayerO)

	room := entity.NewRoom(roomID, opponent, requester)

	that.mu.Lock()
	that.rooms[room.ID] = &activeRoom{room: room}
	that.byConn[opponent.ID] = room.ID
	that.byConn[requester.ID] = room.ID
	that.mu.Unlock()

	that.logger.Info("room created", "roomID", room.ID, "firstTurn", room.Game.Turn)

	return room
}

// SubmitMove - validates and applies a move from the connection whose turn
// it is. Invalid moves are dropped without an error: a desynchronized client
// must not be able to crash or corrupt the room.
func (that *RoomManager) SubmitMove(ctx context.Context, connID string, cell int) {
	log := that.logger.With("method", "SubmitMove", "connID", connID)

	active := that.lookup(connID)
	if active == nil {
		log.Debug("no active room for connection")
		return
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	if active.terminal {
		return
	}

	room := active.room

	player := room.Participant(connID)
	if player == nil {
		return
	}

	if err := room.Game.MakeTurn(player.Mark, cell); err != nil {
		log.Debug("move rejected", "cell", cell, "error", err)
		return
	}

	// the mover already sees its move; only the opponent needs the relay
	if opponent := room.Opponent(connID); opponent != nil {
		if err := that.notifier.MoveApplied(opponent.ID, cell, room.Game.Turn); err != nil {
			log.Error("failed to send move", "error", err)
		}
	}

	if !room.Game.IsFinished() {
		return
	}

	active.terminal = true

	if room.Game.IsTied() {
		that.notifyTied(room)
		that.report(ctx, room, nil)
	} else {
		winner := that.participantByMark(room, room.Game.Winner)
		that.notifyWon(room, room.Game.Winner)
		that.report(ctx, room, winner)
	}

	that.destroy(room)
}

// Disconnect - handles a closed socket. A participant of an active room
// forfeits: the survivor wins and the room is torn down.
func (that *RoomManager) Disconnect(ctx context.Context, connID string) {
	log := that.logger.With("method", "Disconnect", "connID", connID)

	that.registry.MarkOffline(connID)

	active := that.lookup(connID)
	if active == nil {
		that.registry.Remove(connID)
		return
	}

	active.mu.Lock()

	if !active.terminal {
		active.terminal = true

		room := active.room
		if survivor := room.Opponent(connID); survivor != nil {
			if err := that.notifier.GameWon(survivor.ID, survivor.Mark); err != nil {
				log.Error("failed to notify survivor", "error", err)
			}
			that.report(ctx, room, survivor)
		}

		that.destroy(room)
		log.Info("room closed by disconnect", "roomID", room.ID)
	}

	active.mu.Unlock()

	that.registry.Remove(connID)
}

// ForfeitActiveRoom - closes the room of a connection that requested a new
// match while still playing. The other participant wins and is the only one
// notified; the stale requester goes on to matchmaking.
func (that *RoomManager) ForfeitActiveRoom(ctx context.Context, connID string) {
	log := that.logger.With("method", "ForfeitActiveRoom", "connID", connID)

	active := that.lookup(connID)
	if active == nil {
		return
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	if active.terminal {
		return
	}

	active.terminal = true

	room := active.room
	if survivor := room.Opponent(connID); survivor != nil {
		if err := that.notifier.GameWon(survivor.ID, survivor.Mark); err != nil {
			log.Error("failed to notify survivor", "error", err)
		}
		that.report(ctx, room, survivor)
	}

	that.destroy(room)
	log.Info("room forfeited by stale request", "roomID", room.ID)
}

// RoomByConn - returns the active room a connection participates in.
func (that *RoomManager) RoomByConn(connID string) (*entity.Room, bool) {
	active := that.lookup(connID)
	if active == nil {
		return nil, false
	}

	return active.room, true
}

func (that *RoomManager) ActiveRooms() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

func (that *RoomManager) lookup(connID string) *activeRoom {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomID, ok := that.byConn[connID]
	if !ok {
		return nil
	}

	return that.rooms[roomID]
}

// destroy - removes the room from the active set and returns both
// participants to the registry. Callers hold the room mutex.
func (that *RoomManager) destroy(room *entity.Room) {
	that.mu.Lock()
	delete(that.rooms, room.ID)
	for _, player := range room.Players {
		if player != nil {
			delete(that.byConn, player.ID)
		}
	}
	that.mu.Unlock()

	for _, player := range room.Players {
		if player != nil {
			that.registry.ReleaseRoom(player.ID)
		}
	}
}

// report - invokes the outcome reporter once. A reporting failure (for
// example an anonymous participant) only aborts the report; the room is
// destroyed regardless.
func (that *RoomManager) report(ctx context.Context, room *entity.Room, winner *entity.Connection) {
	result := entity.MatchResult{
		PlayerA: room.Players[0].UserID,
		PlayerB: room.Players[1].UserID,
		Type:    entity.RecordTypeTied,
	}

	if winner != nil {
		result.Type = entity.RecordTypeWin
		result.WinnerID = winner.UserID
	}

	if err := that.reporter.Report(ctx, result); err != nil {
		that.logger.Warn("outcome not reported", "roomID", room.ID, "error", err)
	}
}

func (that *RoomManager) participantByMark(room *entity.Room, mark string) *entity.Connection {
	for _, player := range room.Players {
		if player != nil && player.Mark == mark {
			return player
		}
	}
	return nil
}

func (that *RoomManager) notifyWon(room *entity.Room, winnerMark string) {
	for _, player := range room.Players {
		if player == nil {
			continue
		}
		if err := that.notifier.GameWon(player.ID, winnerMark); err != nil {
			that.logger.Error("failed to send game result", "connID", player.ID, "error", err)
		}
	}
}

func (that *RoomManager) notifyTied(room *entity.Room) {
	for _, player := range room.Players {
		if player == nil {
			continue
		}
		if err := that.notifier.GameTied(player.ID); err != nil {
			that.logger.Error("failed to send game result", "connID", player.ID, "error", err)
		}
	}
}

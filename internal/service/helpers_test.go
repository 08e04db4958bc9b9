package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type notifierEvent struct {
	connID string
	action string

	cell         int
	turn         string
	opponentName string
	mark         string
	winner       string
}

// fakeNotifier records every outbound event per connection.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notifierEvent
}

func (that *fakeNotifier) record(ev notifierEvent) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, ev)
}

func (that *fakeNotifier) OpponentFound(connID, opponentName, yourMark, firstTurn string) error {
	that.record(notifierEvent{connID: connID, action: "opponent_found", opponentName: opponentName, mark: yourMark, turn: firstTurn})
	return nil
}

func (that *fakeNotifier) OpponentNotFound(connID string) error {
	that.record(notifierEvent{connID: connID, action: "opponent_not_found"})
	return nil
}

func (that *fakeNotifier) MoveApplied(connID string, cell int, turn string) error {
	that.record(notifierEvent{connID: connID, action: "move_applied", cell: cell, turn: turn})
	return nil
}

func (that *fakeNotifier) GameWon(connID, winnerMark string) error {
	that.record(notifierEvent{connID: connID, action: "game_won", winner: winnerMark})
	return nil
}

func (that *fakeNotifier) GameTied(connID string) error {
	that.record(notifierEvent{connID: connID, action: "game_tied"})
	return nil
}

func (that *fakeNotifier) eventsFor(connID string) []notifierEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	var out []notifierEvent
	for _, ev := range that.events {
		if ev.connID == connID {
			out = append(out, ev)
		}
	}

	return out
}

func (that *fakeNotifier) countAction(connID, action string) int {
	count := 0
	for _, ev := range that.eventsFor(connID) {
		if ev.action == action {
			count++
		}
	}

	return count
}

// fakeReporter counts Report invocations; err, when set, is returned to the
// caller without recording the result.
type fakeReporter struct {
	mu      sync.Mutex
	results []entity.MatchResult
	err     error
}

func (that *fakeReporter) Report(_ context.Context, result entity.MatchResult) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.err != nil {
		return that.err
	}

	that.results = append(that.results, result)

	return nil
}

func (that *fakeReporter) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.results)
}

func (that *fakeReporter) last() entity.MatchResult {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.results[len(that.results)-1]
}

// fakeVerifier accepts only the tokens it was seeded with.
type fakeVerifier struct {
	tokens map[string]*TokenClaims
}

func (that *fakeVerifier) VerifyToken(tokenString string) (*TokenClaims, error) {
	if claims, ok := that.tokens[tokenString]; ok {
		return claims, nil
	}

	return nil, fmt.Errorf("%w: unknown token", apperror.ErrUnauthenticated)
}

type matchEnv struct {
	registry   *Registry
	rooms      *RoomManager
	matchmaker *Matchmaker
	notifier   *fakeNotifier
	reporter   *fakeReporter
	verifier   *fakeVerifier
}

func newMatchEnv() *matchEnv {
	logger := discardLogger()

	notifier := &fakeNotifier{}
	reporter := &fakeReporter{}
	verifier := &fakeVerifier{tokens: map[string]*TokenClaims{}}

	registry := NewRegistry()
	rooms := NewRoomManager(logger, registry, reporter, notifier)
	matchmaker := NewMatchmaker(logger, registry, rooms, verifier, notifier)

	return &matchEnv{
		registry:   registry,
		rooms:      rooms,
		matchmaker: matchmaker,
		notifier:   notifier,
		reporter:   reporter,
		verifier:   verifier,
	}
}

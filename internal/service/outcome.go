package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
	"github.com/rivalplay/arena-backend/internal/pkg"
)

// ratingDelta is the fixed adjustment per decisive game; ties adjust nothing.
const ratingDelta = 10

// OutcomeReporter persists the result of a finished room: rating adjustments
// and one history record. The room manager calls it exactly once per room.
type OutcomeReporter interface {
	Report(ctx context.Context, result entity.MatchResult) error
}

type ratingRepo interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	AdjustRating(ctx context.Context, id string, delta int) error
}

type recordRepo interface {
	Save(ctx context.Context, record *entity.Record) error
}

type outcomeReporter struct {
	userRepo   ratingRepo
	recordRepo recordRepo
}

func NewOutcomeReporter(userRepo ratingRepo, recordRepo recordRepo) OutcomeReporter {
	return &outcomeReporter{
		userRepo:   userRepo,
		recordRepo: recordRepo,
	}
}

func (that *outcomeReporter) Report(ctx context.Context, result entity.MatchResult) error {
	if result.PlayerA == "" || result.PlayerB == "" {
		return fmt.Errorf("%w: anonymous participant", apperror.ErrRecordNotFound)
	}

	// both accounts must exist before anything is written
	if _, err := that.userRepo.GetByID(ctx, result.PlayerA); err != nil {
		return fmt.Errorf("failed to load player %s: %w", result.PlayerA, err)
	}
	if _, err := that.userRepo.GetByID(ctx, result.PlayerB); err != nil {
		return fmt.Errorf("failed to load player %s: %w", result.PlayerB, err)
	}

	if result.Type == entity.RecordTypeWin {
		loserID := result.PlayerA
		if result.WinnerID == result.PlayerA {
			loserID = result.PlayerB
		}

		if err := that.userRepo.AdjustRating(ctx, result.WinnerID, ratingDelta); err != nil {
			return fmt.Errorf("failed to adjust winner rating: %w", err)
		}

		if err := that.userRepo.AdjustRating(ctx, loserID, -ratingDelta); err != nil {
			return fmt.Errorf("failed to adjust loser rating: %w", err)
		}
	}

	record := &entity.Record{
		ID:        pkg.GenerateNewSessionID(),
		PlayerA:   result.PlayerA,
		PlayerB:   result.PlayerB,
		WinnerID:  result.WinnerID,
		Type:      result.Type,
		CreatedAt: time.Now().UTC(),
	}

	if err := that.recordRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save match record: %w", err)
	}

	return nil
}

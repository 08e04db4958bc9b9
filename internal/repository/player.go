package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
)

// PlayerRepository mirrors live connection snapshots into redis so the
// process state is observable from outside; it is never read back to drive
// matchmaking decisions.
type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, conn *entity.Connection) error
	GetByID(ctx context.Context, id string) (*entity.Connection, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, conn *entity.Connection) error {
	playerJSON, err := json.Marshal(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	playerKey := "player:" + conn.ID
	err = that.client.Set(ctx, playerKey, playerJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Connection, error) {
	playerKey := "player:" + id

	response, err := that.client.Get(ctx, playerKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrConnectionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Connection
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

func (that *dbPlayer) DeleteByID(ctx context.Context, id string) error {
	playerKey := "player:" + id

	err := that.client.Del(ctx, playerKey).Err()
	if err != nil {
		return fmt.Errorf("failed to delete player by ID: %w", err)
	}

	return nil
}

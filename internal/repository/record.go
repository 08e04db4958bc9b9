package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rivalplay/arena-backend/internal/entity"
)

type RecordRepository interface {
	Save(ctx context.Context, record *entity.Record) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Record, error)
}

type recordRepository struct {
	conn *sql.DB
}

func NewRecordRepository(conn *sql.DB) RecordRepository {
	return &recordRepository{
		conn: conn,
	}
}

func (that *recordRepository) Save(ctx context.Context, record *entity.Record) error {
	query := `INSERT INTO records (id, player_a, player_b, winner_id, type, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.ID, record.PlayerA, record.PlayerB, record.WinnerID, record.Type, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("can't save record: %w", err)
	}

	return nil
}

func (that *recordRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Record, error) {
	query := `SELECT id, player_a, player_b, winner_id, type, created_at FROM records
		WHERE player_a = ? OR player_b = ? ORDER BY created_at DESC`

	rows, err := that.conn.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list records: %w", err)
	}
	defer rows.Close()

	var records []*entity.Record
	for rows.Next() {
		var record entity.Record
		if err = rows.Scan(&record.ID, &record.PlayerA, &record.PlayerB, &record.WinnerID, &record.Type, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("can't scan record: %w", err)
		}
		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read records: %w", err)
	}

	return records, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
)

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	AdjustRating(ctx context.Context, id string, delta int) error
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (id, email, name, rating) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.Rating)
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, email, name, rating FROM users WHERE id = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &user.Rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}

func (that *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, email, name, rating FROM users WHERE email = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.Name, &user.Rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}

func (that *userRepository) AdjustRating(ctx context.Context, id string, delta int) error {
	query := `UPDATE users SET rating = rating + ? WHERE id = ?`

	result, err := that.conn.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("can't adjust rating: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't check affected rows: %w", err)
	}

	if affected == 0 {
		return apperror.ErrRecordNotFound
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
	"github.com/rivalplay/arena-backend/internal/pkg"
)

type UserService interface {
	GetOrCreateByEmail(ctx context.Context, email, name string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// GetOrCreateByEmail - looks an account up by email and registers it with the
// base rating on first login.
func (that *userService) GetOrCreateByEmail(ctx context.Context, email, name string) (*entity.User, error) {
	user, err := that.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, apperror.ErrRecordNotFound) {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	user = &entity.User{
		ID:     pkg.GenerateNewSessionID(),
		Email:  email,
		Name:   name,
		Rating: entity.BaseRating,
	}

	if err = that.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	return user, nil
}

func (that *userService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := that.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return user, nil
}

package users

import (
	"context"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"go.uber.org/zap"
)

type UserUseCase interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Validate reports whether the user exists and is active.
	Validate(ctx context.Context, id int64) (bool, error)
}

type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Validate(ctx context.Context, id int64) (bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.Active, nil
}

var _ UserUseCase = (*UserService)(nil)

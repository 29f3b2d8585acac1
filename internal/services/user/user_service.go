package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/perrors"
)

type UserService struct {
	repo *UserRepo
}

func NewUserService(repo *UserRepo) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, perrors.NewErrNotFound("User not found", err)
		}
		return nil, perrors.NewErrInternalServerError("Failed to get user", err)
	}
	return u, nil
}

// List returns all users. Requires the user:read:all capability.
func (s *UserService) List(ctx context.Context, actor *User) ([]*User, error) {
	if !actor.HasPermission(UserReadAll) {
		return nil, perrors.NewErrForbidden("Not allowed to list users", errors.New("missing user:read:all"))
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to list users", err)
	}
	return users, nil
}

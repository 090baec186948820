package service

import (
	"context"
	"strings"

	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/pkg/errors"
	"equipment-inventory-api/pkg/validation"

	"go.uber.org/zap"
)

// UserService handles the user directory
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError("failed to retrieve users", err)
	}
	return users, nil
}

// SearchUsers returns users whose name contains name, ignoring case.
func (s *UserService) SearchUsers(ctx context.Context, name string) ([]model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ValidationError("name is required")
	}

	users, err := s.users.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("failed to search users", err)
	}
	return users, nil
}

// UpdateUser replaces name and email of user id and, when given, its
// password. Only the user themself or an admin may do so.
func (s *UserService) UpdateUser(ctx context.Context, actor model.Identity, id int64, input model.UserUpdateInput) (*model.User, error) {
	if fields := validation.ValidateUserUpdateInput(&input); len(fields) > 0 {
		return nil, errors.ValidationErrorWithDetails("invalid user data", fields)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.NotFoundError("user")
		}
		return nil, storeError("failed to retrieve user", err)
	}

	if actor.ID != id && !actor.IsAdmin() {
		return nil, errors.ForbiddenError("not allowed to update another user")
	}

	if input.Email != user.Email {
		taken, err := s.users.EmailTaken(ctx, input.Email, id)
		if err != nil {
			return nil, storeError("failed to check email", err)
		}
		if taken {
			return nil, errors.AlreadyExistsError("email")
		}
	}

	user.Name = input.Name
	user.Email = input.Email
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, errors.InternalError("error hashing password", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, errors.AlreadyExistsError("email")
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, errors.NotFoundError("user")
		}
		return nil, storeError("failed to update user", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", id), zap.Int64("actor_id", actor.ID))
	return user, nil
}

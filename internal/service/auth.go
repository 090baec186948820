package service

import (
	"context"
	"time"

	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/pkg/errors"
	"equipment-inventory-api/pkg/validation"

	"go.uber.org/zap"
)

// Messages returned for authentication failures. Login does not say
// which of email or password was wrong.
const (
	msgInvalidCredentials = "invalid email or password"
	msgTokenFailed        = "not authorized, token failed"
	msgNoToken            = "not authorized, no token"
	msgUserGone           = "not authorized, user not found"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string         `json:"token"`
	User  model.Identity `json:"user"`
}

// AuthService handles registration, login and token resolution
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// TokenTTL is the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Register creates an account. A taken email is a conflict and no row is
// written.
func (s *AuthService) Register(ctx context.Context, input model.RegisterInput) (*model.User, error) {
	if fields := validation.ValidateRegisterInput(&input); len(fields) > 0 {
		return nil, errors.ValidationErrorWithDetails("invalid registration data", fields)
	}

	taken, err := s.users.EmailTaken(ctx, input.Email, 0)
	if err != nil {
		return nil, storeError("failed to check email", err)
	}
	if taken {
		return nil, errors.AlreadyExistsError("email")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, errors.InternalError("error hashing password", err)
	}

	user := model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.AlreadyExistsError("email")
		}
		return nil, storeError("failed to create user", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return &user, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input model.LoginInput) (*LoginResult, error) {
	if fields := validation.ValidateLoginInput(&input); len(fields) > 0 {
		return nil, errors.ValidationErrorWithDetails("email and password are required", fields)
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.UnauthorizedError(msgInvalidCredentials)
		}
		return nil, storeError("failed to retrieve user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		s.logger.Info("login failed", zap.Int64("user_id", user.ID))
		return nil, errors.UnauthorizedError(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.InternalError("failed to issue token", err)
	}

	return &LoginResult{Token: token, User: model.IdentityOf(*user)}, nil
}

// Authenticate resolves a bearer token to the caller. The store is only
// consulted once the token has verified.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, errors.UnauthorizedError(msgNoToken)
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, errors.UnauthorizedError(msgTokenFailed)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.UnauthorizedError(msgUserGone)
		}
		return nil, storeError("failed to retrieve user", err)
	}

	identity := model.IdentityOf(*user)
	return &identity, nil
}

// Profile returns the public identity of userID.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*model.Identity, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.NotFoundError("user")
		}
		return nil, storeError("failed to retrieve user", err)
	}

	identity := model.IdentityOf(*user)
	return &identity, nil
}

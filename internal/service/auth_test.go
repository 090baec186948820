package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/internal/repository/repotest"
	apperrors "equipment-inventory-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = auth.NewTokenManager("0123456789abcdef0123", time.Hour)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestRegister_Success(t *testing.T) {
	var created *model.User
	users := &repotest.MockUserRepository{
		CreateFunc: func(ctx context.Context, u *model.User) error {
			u.ID = 10
			created = u
			return nil
		},
	}
	svc := NewAuthService(users, testTokens, nil)

	u, err := svc.Register(context.Background(), model.RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "s3cret!"})

	require.NoError(t, err)
	assert.Equal(t, int64(10), u.ID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.NotEqual(t, "s3cret!", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "s3cret!"))
	assert.Equal(t, model.RoleUser, created.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	createCalls := 0
	users := &repotest.MockUserRepository{
		EmailTakenFunc: func(ctx context.Context, email string, exceptID int64) (bool, error) {
			return true, nil
		},
		CreateFunc: func(ctx context.Context, u *model.User) error {
			createCalls++
			return nil
		},
	}
	svc := NewAuthService(users, testTokens, nil)

	_, err := svc.Register(context.Background(), model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret!"})

	assertAppStatus(t, err, http.StatusConflict)
	assert.Zero(t, createCalls)
}

func TestRegister_DuplicateRace(t *testing.T) {
	users := &repotest.MockUserRepository{
		CreateFunc: func(ctx context.Context, u *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := NewAuthService(users, testTokens, nil)

	_, err := svc.Register(context.Background(), model.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret!"})

	assertAppStatus(t, err, http.StatusConflict)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input model.RegisterInput
		field string
	}{
		{"bad email", model.RegisterInput{Name: "A", Email: "nope", Password: "s3cret!"}, "email"},
		{"short password", model.RegisterInput{Name: "A", Email: "a@example.com", Password: "12345"}, "password"},
		{"missing name", model.RegisterInput{Email: "a@example.com", Password: "s3cret!"}, "name"},
		{"multibyte password over 72 bytes", model.RegisterInput{Name: "A", Email: "a@example.com", Password: strings.Repeat("รหัส", 8)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &repotest.MockUserRepository{}
			svc := NewAuthService(users, testTokens, nil)

			_, err := svc.Register(context.Background(), tt.input)

			assertAppStatus(t, err, http.StatusBadRequest)
			appErr, _ := apperrors.AsAppError(err)
			assert.Contains(t, appErr.Details, tt.field)
			assert.Zero(t, users.Count())
		})
	}
}

func TestLogin(t *testing.T) {
	hash := mustHash(t, "s3cret!")
	users := &repotest.MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email != "alice@example.com" {
				return nil, repository.ErrUserNotFound
			}
			return &model.User{ID: 3, Name: "Alice", Email: email, PasswordHash: hash, Role: model.RoleUser}, nil
		},
	}
	svc := NewAuthService(users, testTokens, nil)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(context.Background(), model.LoginInput{Email: "ALICE@example.com", Password: "s3cret!"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.User.ID)

		id, err := testTokens.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginInput{Email: "alice@example.com", Password: "nope!!"})
		assertAppStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginInput{Email: "bob@example.com", Password: "s3cret!"})
		assertAppStatus(t, err, http.StatusUnauthorized)
		assert.Contains(t, err.Error(), msgInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginInput{})
		assertAppStatus(t, err, http.StatusBadRequest)
	})
}

func TestAuthenticate_InvalidTokenSkipsStore(t *testing.T) {
	users := &repotest.MockUserRepository{}
	svc := NewAuthService(users, testTokens, nil)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Authenticate(context.Background(), token)
		assertAppStatus(t, err, http.StatusUnauthorized)
	}
	assert.Zero(t, users.Count())
}

func TestAuthenticate_UserGone(t *testing.T) {
	users := &repotest.MockUserRepository{}
	svc := NewAuthService(users, testTokens, nil)
	token, err := testTokens.Issue(77)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)

	assertAppStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, 1, users.Count())
}

func TestAuthenticate_Success(t *testing.T) {
	users := &repotest.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "Alice", Email: "alice@example.com", Role: model.RoleAdmin}, nil
		},
	}
	svc := NewAuthService(users, testTokens, nil)
	token, err := testTokens.Issue(5)
	require.NoError(t, err)

	identity, err := svc.Authenticate(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, model.Identity{ID: 5, Name: "Alice", Email: "alice@example.com", Role: model.RoleAdmin}, *identity)
}

func TestProfile_NotFound(t *testing.T) {
	svc := NewAuthService(&repotest.MockUserRepository{}, testTokens, nil)

	_, err := svc.Profile(context.Background(), 1)

	assertAppStatus(t, err, http.StatusNotFound)
}

package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/repository/repotest"
	apperrors "equipment-inventory-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRepoWith(u model.User) (*repotest.MockUserRepository, **model.User) {
	var updated *model.User
	repo := &repotest.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			found := u
			return &found, nil
		},
		UpdateFunc: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}
	return repo, &updated
}

func TestUpdateUser_Self(t *testing.T) {
	repo, updated := userRepoWith(model.User{ID: 1, Name: "Alice", Email: "alice@example.com", PasswordHash: "old", Role: model.RoleUser})
	svc := NewUserService(repo, nil)

	u, err := svc.UpdateUser(context.Background(), actor, 1, model.UserUpdateInput{Name: "Alice B", Email: "alice@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)
	require.NotNil(t, *updated)
	assert.Equal(t, "old", (*updated).PasswordHash, "empty password keeps the current hash")
}

func TestUpdateUser_PasswordRehashed(t *testing.T) {
	repo, updated := userRepoWith(model.User{ID: 1, Name: "Alice", Email: "alice@example.com", PasswordHash: "old"})
	svc := NewUserService(repo, nil)

	_, err := svc.UpdateUser(context.Background(), actor, 1, model.UserUpdateInput{Name: "Alice", Email: "alice@example.com", Password: "n3w-secret"})

	require.NoError(t, err)
	assert.NotEqual(t, "n3w-secret", (*updated).PasswordHash)
	assert.True(t, auth.CheckPassword((*updated).PasswordHash, "n3w-secret"))
}

func TestUpdateUser_OtherUserForbidden(t *testing.T) {
	repo, updated := userRepoWith(model.User{ID: 2, Name: "Bob", Email: "bob@example.com"})
	svc := NewUserService(repo, nil)

	_, err := svc.UpdateUser(context.Background(), actor, 2, model.UserUpdateInput{Name: "Bobby", Email: "bob@example.com"})

	assertAppStatus(t, err, http.StatusForbidden)
	assert.Nil(t, *updated)
}

func TestUpdateUser_AdminMayUpdateOthers(t *testing.T) {
	repo, updated := userRepoWith(model.User{ID: 2, Name: "Bob", Email: "bob@example.com"})
	svc := NewUserService(repo, nil)
	admin := model.Identity{ID: 9, Role: model.RoleAdmin}

	_, err := svc.UpdateUser(context.Background(), admin, 2, model.UserUpdateInput{Name: "Bobby", Email: "bob@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "Bobby", (*updated).Name)
}

func TestUpdateUser_EmailClash(t *testing.T) {
	repo, updated := userRepoWith(model.User{ID: 1, Name: "Alice", Email: "alice@example.com"})
	repo.EmailTakenFunc = func(ctx context.Context, email string, exceptID int64) (bool, error) {
		assert.Equal(t, int64(1), exceptID)
		return email == "bob@example.com", nil
	}
	svc := NewUserService(repo, nil)

	_, err := svc.UpdateUser(context.Background(), actor, 1, model.UserUpdateInput{Name: "Alice", Email: "bob@example.com"})

	assertAppStatus(t, err, http.StatusConflict)
	assert.Nil(t, *updated)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc := NewUserService(&repotest.MockUserRepository{}, nil)

	_, err := svc.UpdateUser(context.Background(), actor, 1, model.UserUpdateInput{Name: "Alice", Email: "alice@example.com"})

	assertAppStatus(t, err, http.StatusNotFound)
}

func TestUpdateUser_Validation(t *testing.T) {
	repo := &repotest.MockUserRepository{}
	svc := NewUserService(repo, nil)

	_, err := svc.UpdateUser(context.Background(), actor, 1, model.UserUpdateInput{Name: "", Email: "bad"})

	assertAppStatus(t, err, http.StatusBadRequest)
	assert.Zero(t, repo.Count())
}

func TestUpdateUser_MultibytePasswordTooLong(t *testing.T) {
	repo, updated := userRepoWith(model.User{ID: 1, Name: "Alice", Email: "alice@example.com", PasswordHash: "old"})
	svc := NewUserService(repo, nil)

	// 32 characters, 96 bytes
	_, err := svc.UpdateUser(context.Background(), actor, 1, model.UserUpdateInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("รหัส", 8)})

	assertAppStatus(t, err, http.StatusBadRequest)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, "password cannot exceed 72 bytes", appErr.Details["password"])
	assert.Zero(t, repo.Count())
	assert.Nil(t, *updated)
}

func TestSearchUsers(t *testing.T) {
	var got string
	repo := &repotest.MockUserRepository{
		SearchByNameFunc: func(ctx context.Context, name string) ([]model.User, error) {
			got = name
			return []model.User{{ID: 1, Name: "Alice"}}, nil
		},
	}
	svc := NewUserService(repo, nil)

	users, err := svc.SearchUsers(context.Background(), " ali ")

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "ali", got)

	_, err = svc.SearchUsers(context.Background(), "  ")
	assertAppStatus(t, err, http.StatusBadRequest)
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository/memory"
	"github.com/huggodev/vntl-api/pkg/auth"
	"github.com/huggodev/vntl-api/pkg/security"
)

func setup(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	svc := NewService(users, tokens, hasher)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &model.User{
		Base:         model.Base{ID: uuid.New()},
		Username:     "ana",
		PasswordHash: hash,
		DisplayName:  "Ana Souza",
		Role:         model.RoleManager,
	}))

	return svc, users
}

func TestLogin(t *testing.T) {
	svc, _ := setup(t)

	resp, err := svc.Login(context.Background(), "ana", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "ana", resp.Username)
	assert.Equal(t, "Ana Souza", resp.DisplayName)
	assert.Equal(t, model.RoleManager, resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ana", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoreError(t *testing.T) {
	svc, users := setup(t)
	users.Err = errors.New("store down")

	_, err := svc.Login(context.Background(), "ana", "s3cret-pass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUser(t *testing.T) {
	svc, _ := setup(t)

	user, err := svc.GetUser(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, user.Role)
}

package auth

import (
	"context"
	"errors"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
	"github.com/huggodev/vntl-api/pkg/auth"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
	"github.com/huggodev/vntl-api/pkg/security"
)

// ErrInvalidCredentials is the single outcome for unknown username and wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	hasher security.PasswordHasher
}

func NewService(users repository.UserRepository, tokens *auth.TokenService, hasher security.PasswordHasher) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Login verifies the credentials against the store and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	return &model.LoginResponse{
		Token:       token,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}, nil
}

// GetUser looks up an identity by username for the authorization gate.
func (s *Service) GetUser(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

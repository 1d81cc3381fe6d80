package users

import (
	"context"
	"errors"

	"github.com/gatherly/server/internal/auth"
)

type Service struct {
	repo Repository
	jwt  *auth.JWTManager
}

func NewService(repo Repository, jwt *auth.JWTManager) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// Login verifies the credentials and issues a bearer token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.jwt.Generate(user.ID, user.Name, user.Email)
}

func (s *Service) Get(ctx context.Context, ulid string) (*User, error) {
	return s.repo.GetByULID(ctx, ulid)
}

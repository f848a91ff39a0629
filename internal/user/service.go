// Package user manages the legacy user records carried over from the
// original schema. Registration hashes passwords with bcrypt; there are no
// sessions or tokens.
package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

var ErrUsernameTaken = errors.New("username already taken")

type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Register creates a user with a bcrypt-hashed password. The plaintext
// password is never stored.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.store.CreateUser(ctx, username, string(hash))
	if errors.Is(err, storage.ErrDuplicate) {
		// Lost a race with a concurrent registration for the same name.
		return nil, ErrUsernameTaken
	}
	return u, err
}

// VerifyPassword reports whether the password matches the stored hash for
// the given username.
func (s *Service) VerifyPassword(ctx context.Context, username, password string) (bool, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil, nil
}

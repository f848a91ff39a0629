package user

import (
	"context"
	"errors"
	"testing"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

func TestRegisterHashesPassword(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "parent", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}

	ok, err := svc.VerifyPassword(ctx, "parent", "hunter2hunter2")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to verify")
	}

	ok, err = svc.VerifyPassword(ctx, "parent", "wrong")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "parent", "hunter2hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "parent", "anotherpassword"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

// racingStore simulates a concurrent registration: the username lookup sees
// nothing, but the insert hits the uniqueness constraint.
type racingStore struct {
	storage.Store
}

func (s *racingStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (s *racingStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return nil, storage.ErrDuplicate
}

func TestRegisterLosesCreateRace(t *testing.T) {
	svc := NewService(&racingStore{})

	if _, err := svc.Register(context.Background(), "parent", "hunter2hunter2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestVerifyPasswordUnknownUser(t *testing.T) {
	svc := NewService(storage.NewMemoryStore())

	if _, err := svc.VerifyPassword(context.Background(), "nobody", "pw"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

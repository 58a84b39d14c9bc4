// services/auth_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, q repos.Querier, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, q repos.Querier, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, repos.ErrNotFound
}

func newTestAuthService() (AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	rm := testRepoManager()
	rm.UserRepo = users

	svc := NewAuthService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
	}, rm, testLogger())
	return svc, users
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("expected a user id")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password must be stored hashed")
	}

	token, err := svc.Login(ctx, "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	userID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != user.ID {
		t.Fatalf("token subject %s does not match user %s", userID, user.ID)
	}

	loaded, err := svc.GetUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Email != "dev@example.com" {
		t.Fatalf("unexpected email %q", loaded.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dev@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, "dev@example.com", "other")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dev@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Login(ctx, "dev@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService()
	if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	first, _ := newTestAuthService()

	other := NewAuthService(config.AuthConfig{
		JWTSecret:     "different-secret",
		TokenTTLHours: 1,
	}, func() *RepositoryManager {
		rm := testRepoManager()
		rm.UserRepo = newFakeUserRepo()
		return rm
	}(), testLogger())

	ctx := context.Background()
	if _, err := other.Register(ctx, "dev@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	token, err := other.Login(ctx, "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := first.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for a foreign signature, got %v", err)
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fin-advisor/internal/domain/profile"
	"fin-advisor/internal/domain/user"
	"fin-advisor/internal/pkg/jwt"
	ucauth "fin-advisor/internal/usecase/auth"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: map[uuid.UUID]user.User{}, byEmail: map[string]user.User{}}
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return errors.New("duplicate key")
	}
	u.CreatedAt = time.Now().UTC()
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

type stubOnboarding struct {
	complete bool
}

func (s stubOnboarding) Get(context.Context, uuid.UUID) (profile.UserProfile, error) {
	return profile.UserProfile{}, ErrProfileNotFound
}

func (s stubOnboarding) Submit(context.Context, profile.UserProfile) (profile.UserProfile, error) {
	return profile.UserProfile{}, nil
}

func (s stubOnboarding) Update(context.Context, uuid.UUID, ProfilePatch) (profile.UserProfile, error) {
	return profile.UserProfile{}, nil
}

func (s stubOnboarding) IsComplete(context.Context, uuid.UUID) bool { return s.complete }

func newAuthUC(repo user.Repository, complete bool) *Auth {
	jwtSvc := jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthUsecase(repo, jwtSvc, stubOnboarding{complete: complete})
}

func TestAuthRegister_IssuesTokensAndProfileFlag(t *testing.T) {
	uc := newAuthUC(newMockUserRepo(), false)

	res, err := uc.Register(context.Background(), ucauth.RegisterInput{
		Email:       "Ana@Example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.User.Email != "ana@example.com" {
		t.Fatalf("email should be normalized, got %q", res.User.Email)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected a token pair")
	}
	if res.ProfileCompleted {
		t.Fatalf("fresh account cannot have a completed profile")
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("password hash must not leave the usecase")
	}
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	uc := newAuthUC(repo, false)

	in := ucauth.RegisterInput{Email: "a@b.com", Password: "longenough"}
	if _, err := uc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := uc.Register(context.Background(), in); !errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	uc := newAuthUC(repo, true)

	in := ucauth.RegisterInput{Email: "a@b.com", Password: "longenough"}
	if _, err := uc.Register(context.Background(), in); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := uc.Login(context.Background(), ucauth.LoginInput{Email: "a@b.com", Password: "wrong"}); !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	res, err := uc.Login(context.Background(), ucauth.LoginInput{Email: "a@b.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !res.ProfileCompleted {
		t.Fatalf("profile flag should reflect the onboarding check")
	}
}

func TestAuthRefresh_RejectsAccessToken(t *testing.T) {
	repo := newMockUserRepo()
	uc := newAuthUC(repo, false)

	res, err := uc.Register(context.Background(), ucauth.RegisterInput{Email: "a@b.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Refresh(context.Background(), res.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("access token must not refresh, got %v", err)
	}

	access, refresh, err := uc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected a new token pair")
	}
}

func TestAuthRefresh_EmptyToken(t *testing.T) {
	uc := newAuthUC(newMockUserRepo(), false)
	if _, _, err := uc.Refresh(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

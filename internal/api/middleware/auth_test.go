package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
	"github.com/acme/accounts-api/internal/core/token"
)

type stubRepo struct {
	users map[string]*domain.User
}

func (s *stubRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (s *stubRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }

func (s *stubRepo) List(context.Context, ports.ListUsersQuery) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (s *stubRepo) FindFriendsCreatedBy(context.Context, string) ([]domain.User, error) {
	return nil, nil
}

func (s *stubRepo) CountUsers(context.Context) (int64, error)            { return 0, nil }
func (s *stubRepo) CountByRole(context.Context, domain.Role) (int64, error) { return 0, nil }

func testUser() *domain.User {
	return &domain.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
		IsActive: true,
	}
}

func invokeAuth(t *testing.T, codec *token.Codec, repo ports.UserRepository, target, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(codec, repo, []string{"/api/v1/auth/", "/health"}, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuthSetsIdentityForValidToken(t *testing.T) {
	user := testUser()
	repo := &stubRepo{users: map[string]*domain.User{user.ID: user}}
	codec := token.NewCodec("secret", time.Hour, 0)

	access, _, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, err := invokeAuth(t, codec, repo, "/api/v1/users", "Bearer "+access)
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}

	got, ok := c.Get(CurrentUserKey).(*domain.User)
	if !ok || got == nil {
		t.Fatal("expected current user in context")
	}
	if got.ID != user.ID {
		t.Errorf("current user id = %q, want %q", got.ID, user.ID)
	}
	if role, _ := c.Get("role").(string); role != string(domain.RoleUser) {
		t.Errorf("role = %q, want %q", role, domain.RoleUser)
	}
}

func TestAuthSkipsPublicPaths(t *testing.T) {
	repo := &stubRepo{users: map[string]*domain.User{}}
	codec := token.NewCodec("secret", time.Hour, 0)

	for _, target := range []string{"/api/v1/auth/token", "/health", "/health/ready"} {
		c, err := invokeAuth(t, codec, repo, target, "")
		if err != nil {
			t.Errorf("%s: expected public path to pass, got %v", target, err)
		}
		if c.Get(CurrentUserKey) != nil {
			t.Errorf("%s: public path should not set an identity", target)
		}
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	repo := &stubRepo{users: map[string]*domain.User{}}
	codec := token.NewCodec("secret", time.Hour, 0)

	_, err := invokeAuth(t, codec, repo, "/api/v1/users", "")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthRejectsBadHeaderFormat(t *testing.T) {
	user := testUser()
	repo := &stubRepo{users: map[string]*domain.User{user.ID: user}}
	codec := token.NewCodec("secret", time.Hour, 0)

	access, _, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, header := range []string{access, "Basic " + access, "Bearer"} {
		_, err := invokeAuth(t, codec, repo, "/api/v1/users", header)
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("header %q: expected ErrUnauthenticated, got %v", header, err)
		}
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	repo := &stubRepo{users: map[string]*domain.User{}}
	codec := token.NewCodec("secret", time.Hour, 0)

	_, err := invokeAuth(t, codec, repo, "/api/v1/users", "Bearer not-a-token")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthRejectsRefreshTokenOnProtectedRoute(t *testing.T) {
	user := testUser()
	repo := &stubRepo{users: map[string]*domain.User{user.ID: user}}
	codec := token.NewCodec("secret", time.Hour, 0)

	_, refresh, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = invokeAuth(t, codec, repo, "/api/v1/users", "Bearer "+refresh)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthRejectsDeletedSubject(t *testing.T) {
	user := testUser()
	repo := &stubRepo{users: map[string]*domain.User{}}
	codec := token.NewCodec("secret", time.Hour, 0)

	access, _, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = invokeAuth(t, codec, repo, "/api/v1/users", "Bearer "+access)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthRejectsInactiveSubject(t *testing.T) {
	user := testUser()
	user.IsActive = false
	repo := &stubRepo{users: map[string]*domain.User{user.ID: user}}
	codec := token.NewCodec("secret", time.Hour, 0)

	access, _, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = invokeAuth(t, codec, repo, "/api/v1/users", "Bearer "+access)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository for service tests.
type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Capabilities = append([]string(nil), u.Capabilities...)
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context, query ports.ListUsersQuery) ([]domain.User, int64, error) {
	var matched []domain.User
	for _, u := range r.users {
		if !query.Scope.Allows(u) {
			continue
		}
		if query.Search != "" && !matchesSearch(u, query.Search) {
			continue
		}
		matched = append(matched, *cloneUser(u))
	}

	total := int64(len(matched))
	start := (query.Page - 1) * query.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesSearch(u *domain.User, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{u.Username, u.Email, u.FirstName, u.LastName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) FindFriendsCreatedBy(_ context.Context, creatorID string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleFriend && u.CreatedBy == creatorID {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// stubThrottle is a deterministic ports.LoginThrottle for login tests.
type stubThrottle struct {
	blocked  bool
	failures []string
	resets   []string
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	return !t.blocked, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, key string) error {
	t.failures = append(t.failures, key)
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	t.resets = append(t.resets, key)
	return nil
}

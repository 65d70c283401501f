package ports

import (
	"context"

	"github.com/acme/accounts-api/internal/core/domain"
)

// ListUsersInput carries the caller-facing listing parameters. The caller's
// visibility scope is derived from the actor, never supplied by the client.
type ListUsersInput struct {
	Search string
	Page   int
	Limit  int
}

// UserListResult is returned by List.
type UserListResult struct {
	Items      []domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CreateUserInput carries an authenticated account-creation request. Unlike
// self-registration the role is caller-chosen, subject to authorization.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
}

// UpdateUserInput carries a partial profile update; nil fields are left
// untouched.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// AnalyticsResult holds the aggregate counts exposed to admins.
type AnalyticsResult struct {
	TotalUsers   int64
	TotalFriends int64
}

// UserService defines the object-scoped operations on the user collection.
// Every method takes the authenticated actor; authorization decisions are
// delegated to the authz package.
type UserService interface {
	List(ctx context.Context, actor *domain.User, input ListUsersInput) (*UserListResult, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	Create(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, id string, input UpdateUserInput) (*domain.User, error)
	SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error)
	Analytics(ctx context.Context, actor *domain.User) (*AnalyticsResult, error)
	MyFriends(ctx context.Context, actor *domain.User) ([]domain.User, error)
	ManageFriend(ctx context.Context, actor *domain.User, id string, input UpdateUserInput) (*domain.User, error)
}

package ports

import (
	"context"

	"github.com/acme/accounts-api/internal/core/authz"
	"github.com/acme/accounts-api/internal/core/domain"
)

// ListUsersQuery carries the store-level parameters for a listing: the
// caller's visibility scope, an optional search term matched against
// username, email and name fields, and pagination.
type ListUsersQuery struct {
	Scope  authz.Scope
	Search string
	Page   int
	Limit  int
}

// UserRepository defines the persistence contract for user accounts.
// The core does not specify a storage engine; the Mongo implementation lives
// under internal/infrastructure/db/mongo.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context, query ListUsersQuery) ([]domain.User, int64, error)
	// FindFriendsCreatedBy returns friend accounts whose CreatedBy is the
	// given creator id.
	FindFriendsCreatedBy(ctx context.Context, creatorID string) ([]domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

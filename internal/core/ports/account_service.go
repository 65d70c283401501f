package ports

import (
	"context"

	"github.com/acme/accounts-api/internal/core/domain"
)

// RegisterInput carries self-registration data. The role is never part of
// the input: registration always produces a regular user.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// LoginInput carries credentials plus the caller address used to key the
// attempt throttle.
type LoginInput struct {
	Username string
	Password string
	RemoteIP string
}

// TokenPair is an access/refresh token pair. Refresh rotates both.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PublicProfile is the outbound user representation returned alongside
// tokens. It never includes the password hash.
type PublicProfile struct {
	ID       string
	Username string
	Email    string
	Role     domain.Role
}

// LoginResult bundles the issued tokens with the caller's public profile.
type LoginResult struct {
	Tokens TokenPair
	User   PublicProfile
}

// AccountService orchestrates registration, login and token refresh.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// LoginThrottle bounds repeated failed logins per key (username + address).
type LoginThrottle interface {
	// Allow reports whether another attempt may proceed right now.
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

// dummyHash is compared against when the username is unknown, so a lookup
// miss costs roughly the same as a password mismatch. Best-effort timing
// equalization, not a hard guarantee.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("credential-verifier-filler"), bcrypt.DefaultCost)

// CredentialVerifier checks a username/password pair against the stored
// hash. Unknown user, wrong password and inactive account all collapse to
// ErrInvalidCredentials so callers cannot enumerate usernames.
type CredentialVerifier struct {
	repo ports.UserRepository
}

func NewCredentialVerifier(repo ports.UserRepository) *CredentialVerifier {
	return &CredentialVerifier{repo: repo}
}

func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := v.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

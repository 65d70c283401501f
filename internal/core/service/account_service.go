package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
	"github.com/acme/accounts-api/internal/core/token"
)

const minPasswordLength = 8

// AccountService implements registration, login and token refresh.
type AccountService struct {
	repo     ports.UserRepository
	verifier *CredentialVerifier
	codec    *token.Codec
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

// NewAccountService wires the account flows together. throttle may be nil,
// which disables login attempt limiting.
func NewAccountService(repo ports.UserRepository, codec *token.Codec, throttle ports.LoginThrottle, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		verifier: NewCredentialVerifier(repo),
		codec:    codec,
		throttle: throttle,
		logger:   logger,
	}
}

// Register creates a self-registered account. The role is always forced to
// "user" regardless of input; capability grants follow the role defaults.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Capabilities: domain.DefaultCapabilities(domain.RoleUser),
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}
	user.Normalize()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewValidationError("username", "already taken")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func validateRegistration(input ports.RegisterInput) error {
	if strings.TrimSpace(input.Username) == "" {
		return domain.NewValidationError("username", "is required")
	}
	if len(input.Password) < minPasswordLength {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}

// Login verifies credentials and issues a fresh token pair. The error is
// uniform for unknown usernames and wrong passwords.
func (s *AccountService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	key := throttleKey(input.Username, input.RemoteIP)
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, key)
		if err != nil {
			// A broken throttle must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.verifier.Verify(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) && s.throttle != nil {
			if terr := s.throttle.RecordFailure(ctx, key); terr != nil {
				s.logger.Warn().Err(terr).Msg("failed to record login attempt")
			}
		}
		return nil, err
	}

	if s.throttle != nil {
		if terr := s.throttle.Reset(ctx, key); terr != nil {
			s.logger.Warn().Err(terr).Msg("failed to reset login attempts")
		}
	}

	access, refresh, err := s.codec.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{
		Tokens: ports.TokenPair{AccessToken: access, RefreshToken: refresh},
		User: ports.PublicProfile{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// Both tokens rotate; the prior refresh token is not revoked and stays
// structurally valid until its natural expiry (documented limitation, there
// is no token blacklist).
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}

	access, refresh, err := s.codec.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func throttleKey(username, ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return username + "@" + ip
}

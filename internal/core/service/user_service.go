package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/acme/accounts-api/internal/core/authz"
	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService implements the object-scoped operations on the user
// collection. All permission decisions go through the authz package; this
// service only sequences store calls around them.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns the rows visible to the actor: all rows for admins, own plus
// created rows for regular users, own row only for friends.
func (s *UserService) List(ctx context.Context, actor *domain.User, input ports.ListUsersInput) (*ports.UserListResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, ports.ListUsersQuery{
		Scope:  authz.VisibilityScope(actor),
		Search: strings.TrimSpace(input.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.UserListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get retrieves a single record by id. Direct retrieval is allowed for any
// authenticated caller even when the listing filter would hide the row.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(actor, target, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	return target, nil
}

// Create makes an account on behalf of the actor. Admins may create any
// role; a non-admin holding the create-friend grant may create friend
// accounts, which record the actor as their creator.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError("role", "must be one of admin, user, friend")
	}
	if !authz.CanCreate(actor, role) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
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
		Role:         role,
		Capabilities: domain.DefaultCapabilities(role),
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}
	if role == domain.RoleFriend {
		user.CreatedBy = actor.ID
	}
	user.Normalize()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", created.ID).
		Str("role", string(created.Role)).
		Str("created_by", created.CreatedBy).
		Msg("user created")
	return created, nil
}

// Update applies a partial profile update, subject to the object-level
// permission table.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(actor, target, authz.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	if err := applyProfileUpdate(target, input, true); err != nil {
		return nil, err
	}
	target.UpdatedAt = time.Now().UTC()
	target.Normalize()
	return s.repo.Update(ctx, target)
}

// SetActive toggles the activation flag. Admin only, regardless of
// ownership.
func (s *UserService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	if !authz.CanPerform(actor, authz.ActionActivate) {
		return nil, domain.ErrForbidden
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(actor, target, authz.ActionActivate) {
		return nil, domain.ErrForbidden
	}
	target.IsActive = active
	target.UpdatedAt = time.Now().UTC()
	target.Normalize()

	updated, err := s.repo.Update(ctx, target)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Bool("active", active).Msg("activation toggled")
	return updated, nil
}

// Analytics returns aggregate counts. Admin only.
func (s *UserService) Analytics(ctx context.Context, actor *domain.User) (*ports.AnalyticsResult, error) {
	if !authz.CanPerform(actor, authz.ActionAnalytics) {
		return nil, domain.ErrForbidden
	}
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	friends, err := s.repo.CountByRole(ctx, domain.RoleFriend)
	if err != nil {
		return nil, err
	}
	return &ports.AnalyticsResult{TotalUsers: total, TotalFriends: friends}, nil
}

// MyFriends lists the friend accounts created by the actor.
func (s *UserService) MyFriends(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor.Role != domain.RoleUser && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindFriendsCreatedBy(ctx, actor.ID)
}

// ManageFriend lets a regular user adjust the profile of a friend account
// they created. Password changes go through Update instead.
func (s *UserService) ManageFriend(ctx context.Context, actor *domain.User, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if !authz.CanPerform(actor, authz.ActionManageFriend) {
		return nil, domain.ErrForbidden
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(actor, target, authz.ActionManageFriend) {
		return nil, domain.ErrForbidden
	}
	if err := applyProfileUpdate(target, input, false); err != nil {
		return nil, err
	}
	target.UpdatedAt = time.Now().UTC()
	target.Normalize()
	return s.repo.Update(ctx, target)
}

func applyProfileUpdate(target *domain.User, input ports.UpdateUserInput, allowPassword bool) error {
	if input.Email != nil {
		target.Email = *input.Email
	}
	if input.FirstName != nil {
		target.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		target.LastName = *input.LastName
	}
	if input.Password != nil {
		if !allowPassword {
			return domain.NewValidationError("password", "cannot be changed here")
		}
		if len(*input.Password) < minPasswordLength {
			return domain.NewValidationError("password", "must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		target.PasswordHash = string(hash)
	}
	return nil
}

// Package authz is the pure decision core for role- and ownership-based
// access control. It holds no state and performs no I/O: every function is a
// function of the actor, the action, and (optionally) the target record.
// Callers translate a false result into ErrForbidden.
package authz

import "github.com/acme/accounts-api/internal/core/domain"

// Action names a kind of operation on the user collection.
type Action string

const (
	ActionRead         Action = "read"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionActivate     Action = "activate"
	ActionAnalytics    Action = "analytics"
	ActionManageFriend Action = "manage_friend"
)

// CanPerform is the collection-level check: may the actor attempt this kind
// of action at all, before any target is known.
func CanPerform(actor *domain.User, action Action) bool {
	switch action {
	case ActionRead:
		return true
	case ActionActivate, ActionAnalytics:
		return actor.IsAdmin()
	case ActionManageFriend:
		return actor.Role == domain.RoleUser
	case ActionCreate:
		// Role-specific; see CanCreate.
		return actor.IsAdmin() || actor.HasCapability(domain.CapCreateFriends)
	default:
		// Other writes pass here; the object-level check still applies.
		return true
	}
}

// CanCreate reports whether the actor may create an account with the given
// role. Admins may create any role; everyone else may only create friend
// accounts, and only when holding the create-friend grant.
func CanCreate(actor *domain.User, role domain.Role) bool {
	if actor.IsAdmin() {
		return true
	}
	return role == domain.RoleFriend && actor.HasCapability(domain.CapCreateFriends)
}

// CanAccess is the object-level check for a concrete target record.
func CanAccess(actor, target *domain.User, action Action) bool {
	switch action {
	case ActionActivate:
		return actor.IsAdmin()
	case ActionManageFriend:
		// Restricted to regular users managing a friend they created.
		return actor.Role == domain.RoleUser && target.CreatedBy != "" && target.CreatedBy == actor.ID
	}

	if actor.IsAdmin() {
		return true
	}
	if target.ID == actor.ID {
		return true
	}
	if target.CreatedBy != "" && target.CreatedBy == actor.ID && actor.HasCapability(domain.CapManageOwnFriends) {
		return true
	}
	// Visibility is broad for safe methods: direct retrieval of an unrelated
	// record is allowed even though the listing filter would hide it.
	if action == ActionRead {
		return true
	}
	return false
}

// Scope is the row-visibility predicate for listings. The store translates
// it into a query filter; Allows mirrors it for in-memory evaluation.
type Scope struct {
	// All means no restriction (admin).
	All bool
	// OwnerID restricts to the caller's own record.
	OwnerID string
	// IncludeCreated additionally admits rows the caller created.
	IncludeCreated bool
}

// VisibilityScope returns what the actor's listings may contain: admins see
// all rows, regular users their own row plus rows they created, friends only
// their own row.
func VisibilityScope(actor *domain.User) Scope {
	switch actor.Role {
	case domain.RoleAdmin:
		return Scope{All: true}
	case domain.RoleUser:
		return Scope{OwnerID: actor.ID, IncludeCreated: true}
	default:
		return Scope{OwnerID: actor.ID}
	}
}

// Allows reports whether a record falls inside the scope.
func (s Scope) Allows(u *domain.User) bool {
	if s.All {
		return true
	}
	if u.ID == s.OwnerID {
		return true
	}
	return s.IncludeCreated && u.CreatedBy != "" && u.CreatedBy == s.OwnerID
}

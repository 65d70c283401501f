package domain

import "time"

// Role is the coarse access level of an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleFriend Role = "friend"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser || r == RoleFriend
}

// Capabilities are fine-grained grants checked independently of role.
const (
	CapViewAnalytics    = "can_view_analytics"
	CapCreateFriends    = "can_create_friends"
	CapManageOwnFriends = "can_manage_own_friends"
)

// User models an account in the system.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	// PasswordHash never appears in any outbound representation.
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	// CreatedBy is the id of the account that created this one. It is set
	// only for friend accounts; empty means no non-admin manager exists.
	CreatedBy    string    `json:"created_by,omitempty"`
	Capabilities []string  `json:"capabilities,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	DateJoined   time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account has full authority.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasCapability reports whether the account holds the named grant.
// Admins implicitly hold every capability.
func (u *User) HasCapability(name string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, c := range u.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

// Normalize enforces the superuser invariant before every persist: a
// superuser always carries the admin role and staff status. The account
// service calls it on create and update; the store never does it implicitly.
func (u *User) Normalize() {
	if u.IsSuperuser {
		u.Role = RoleAdmin
		u.IsStaff = true
	}
}

// DefaultCapabilities returns the grants attached to a freshly created
// account of the given role. Regular users may create and manage their own
// friend accounts; friends get nothing.
func DefaultCapabilities(role Role) []string {
	switch role {
	case RoleAdmin:
		return []string{CapViewAnalytics, CapCreateFriends, CapManageOwnFriends}
	case RoleUser:
		return []string{CapCreateFriends, CapManageOwnFriends}
	default:
		return nil
	}
}

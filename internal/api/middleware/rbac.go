package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/acme/accounts-api/internal/core/domain"
)

// RBAC rejects requests whose authenticated identity does not hold one of
// the allowed roles. It is a coarse route-level guard; object-level
// decisions still happen in the authz package.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(CurrentUserKey).(*domain.User)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

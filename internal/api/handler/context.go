package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/acme/accounts-api/internal/api/middleware"
	"github.com/acme/accounts-api/internal/core/domain"
)

// currentUser extracts the identity injected by the Auth middleware. Its
// presence proves the gate ran; protected handlers fail closed without it.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.CurrentUserKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/acme/accounts-api/internal/api/metrics"
	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

// UserHandler handles registration and the object-scoped user endpoints.
type UserHandler struct {
	accounts ports.AccountService
	users    ports.UserService
}

func NewUserHandler(accounts ports.AccountService, users ports.UserService) *UserHandler {
	return &UserHandler{accounts: accounts, users: users}
}

// Register creates a self-registered account. Public route; the role is
// always forced to "user".
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User: publicProfileResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		},
	})
}

// List returns the rows visible to the caller, optionally filtered by a
// search term over username, email and name fields.
//
// @Summary      List visible users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search term"
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  listUsersResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.users.List(c.Request().Context(), actor, ports.ListUsersInput{
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(result))
}

// Get retrieves a single user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create makes an account on behalf of the caller. Admins may pick any
// role; regular users holding the create-friend grant may create friend
// accounts, which record them as creator.
//
// @Summary      Create a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), actor, ports.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update applies a partial profile update, subject to the object-level
// permission table.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), actor, c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Activate toggles an account's activation flag. Admin only.
//
// @Summary      Activate or deactivate a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "User id"
// @Param        body  body      activateRequest  false  "Defaults to active=true"
// @Success      200   {object}  statusResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/users/{id}/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	if _, err := h.users.SetActive(c.Request().Context(), actor, c.Param("id"), active); err != nil {
		return err
	}

	status := "user activated"
	if !active {
		status = "user deactivated"
	}
	return c.JSON(http.StatusOK, statusResponse{Status: status})
}

// Analytics returns aggregate account counts. Admin only.
//
// @Summary      Account analytics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analyticsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/users/analytics [get]
func (h *UserHandler) Analytics(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	result, err := h.users.Analytics(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyticsResponse{
		TotalUsers:   result.TotalUsers,
		TotalFriends: result.TotalFriends,
	})
}

// MyFriends lists the friend accounts created by the caller.
//
// @Summary      List friends created by the caller
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/users/my_friends [get]
func (h *UserHandler) MyFriends(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	friends, err := h.users.MyFriends(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUsersResponse(friends))
}

// ManageFriend lets a regular user adjust the profile of a friend they
// created.
//
// @Summary      Manage an owned friend account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Friend user id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/users/{id}/manage_friend [post]
func (h *UserHandler) ManageFriend(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.ManageFriend(c.Request().Context(), actor, c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

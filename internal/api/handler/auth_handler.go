package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/acme/accounts-api/internal/api/metrics"
	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

// AuthHandler handles token issuance and refresh.
type AuthHandler struct {
	accounts ports.AccountService
	logger   zerolog.Logger
}

func NewAuthHandler(accounts ports.AccountService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// Token authenticates a username/password pair and issues a token pair.
//
// @Summary      Obtain an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/v1/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User: publicProfileResponse{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
			Role:     string(result.User.Role),
		},
	})
}

// RefreshToken exchanges a refresh token for a fresh pair. Both tokens
// rotate.
//
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/auth/refresh_token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, err := h.accounts.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("refresh", refreshResult(err)).Inc()
		// Expired, malformed, wrong kind and vanished subject are distinct
		// reasons internally but a uniform 401 outward.
		h.logger.Debug().Err(err).Msg("refresh rejected")
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}
	metrics.TokenVerificationsTotal.WithLabelValues("refresh", "ok").Inc()

	return c.JSON(http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}

func refreshResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrWrongTokenKind):
		return "wrong_kind"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	default:
		return "malformed"
	}
}

package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/acme/accounts-api/internal/api/metrics"
	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
	"github.com/acme/accounts-api/internal/core/token"
)

// CurrentUserKey is the echo context key carrying the authenticated
// *domain.User set by Auth.
const CurrentUserKey = "current_user"

// Auth is the per-request authentication gate. Requests whose path matches a
// public prefix pass through untouched, with no token inspection. Everything
// else must carry a valid bearer access token resolving to an active user.
//
// Token-level failure reasons (expired vs malformed vs wrong kind) are kept
// for logging only; the outward signal is a uniform 401.
func Auth(codec *token.Codec, repo ports.UserRepository, publicPaths []string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range publicPaths {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				// Anonymous identity on a protected resource.
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrUnauthenticated
			}

			claims, err := codec.Verify(parts[1], token.KindAccess)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("access", verifyResult(err)).Inc()
				log.Debug().Err(err).Str("path", path).Msg("access token rejected")
				return domain.ErrUnauthenticated
			}
			metrics.TokenVerificationsTotal.WithLabelValues("access", "ok").Inc()

			user, err := repo.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
					return domain.ErrUnauthenticated
				}
				return err
			}
			if !user.IsActive {
				log.Debug().Str("subject", claims.Subject).Msg("token subject is inactive")
				return domain.ErrUnauthenticated
			}

			c.Set(CurrentUserKey, user)
			c.Set("user_id", user.ID)
			c.Set("role", string(user.Role))

			return next(c)
		}
	}
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrWrongTokenKind):
		return "wrong_kind"
	default:
		return "malformed"
	}
}

package middleware

import (
	"net/http"
	"strings"

	"movieshop/internal/model"
	"movieshop/internal/token"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth resolves the bearer token into a user id and role, or rejects the
// request with 401.
func Auth(maker *token.Maker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header")
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "expected 'Bearer <token>'")
			}

			claims, err := maker.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole is the explicit capability check for role-gated routes.
func RequireRole(required model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(model.Role)
			if !ok || role != required {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// UserID pulls the authenticated user id set by Auth.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(ContextUserID).(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

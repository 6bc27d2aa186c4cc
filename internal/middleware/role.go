package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/accounts-service/internal/model"
)

// RoleFinder loads the caller's record so the current role is checked
// rather than one frozen into the token.
type RoleFinder interface {
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
}

// RequireRole must run after JWTAuth. It rejects callers whose account has
// none of roles with 403, and callers whose account is gone with 401.
// Deactivated and not-yet-enabled accounts are rejected as well, matching
// the gates applied at login.
func RequireRole(users RoleFinder, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := Email(c)
			if email == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "message": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, found, err := users.FindByEmail(ctx, email)
			if err != nil {
				c.Logger().Errorf("[role] lookup %s: %v", email, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "internal server error"})
			}
			if !found {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "message": "unknown account"})
			}
			if !u.Active || !u.Enabled || !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": "insufficient role"})
			}

			c.Set(ctxRoleKey, u.Role)
			return next(c)
		}
	}
}

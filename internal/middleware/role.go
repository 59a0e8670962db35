package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleStore is the slice of the user store the role gate needs.
type RoleStore interface {
	GetRole(ctx context.Context, id uint64) (string, error)
}

// RequireRole enforces that the authenticated user holds one of the given
// roles. The role is re-read from the store on every request rather than
// trusted from the token, so a demotion takes effect immediately. Must
// run after JWTAuth.
func RequireRole(store RoleStore, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
			}
			role, err := store.GetRole(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionStore is the slice of the user store the liveness check needs.
// *repository.UserRepo satisfies it.
type SessionStore interface {
	GetRefreshToken(ctx context.Context, id uint64) (*string, error)
}

// CheckSession rejects requests whose user has no stored refresh token.
// An access token stays cryptographically valid for its full TTL after
// logout; this re-check closes that window. Must run after JWTAuth.
func CheckSession(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
			}
			token, err := store.GetRefreshToken(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			if token == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired, please login again"})
			}
			return next(c)
		}
	}
}

// Package middleware provides the per-request gates: bearer token
// authentication, session liveness, role enforcement, rate limiting and
// the admin response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-api/internal/utils"
)

// ContextUserID is the echo context key under which JWTAuth stores the
// authenticated user's id (uint64).
const ContextUserID = "user_id"

// JWTAuth validates a Bearer access token and injects the user id into the
// request context. A missing token and an invalid/expired one get distinct
// messages so clients can tell "log in" from "refresh".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized, no token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized, invalid token"})
			}

			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user's id placed by JWTAuth. The
// boolean is false when the middleware did not run on this route.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok
}

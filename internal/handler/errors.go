// Package handler contains the echo HTTP handlers. They bind requests,
// call into the auth service and translate its tagged errors to status
// codes; no business rules live here.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-api/internal/auth"
)

// writeError maps the service error taxonomy onto HTTP responses. The
// match is exhaustive over the auth package's sentinels; anything else is
// a server error and its details stay out of the response body.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrDuplicateEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrVerificationRequired):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":                "please verify your email before logging in",
			"requiresVerification": true,
		})
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	case errors.Is(err, auth.ErrInvalidOrExpiredToken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
	case errors.Is(err, auth.ErrAlreadyVerified):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already verified"})
	case errors.Is(err, auth.ErrIncorrectPassword):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is incorrect"})
	case errors.Is(err, auth.ErrSessionExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired, please login again"})
	case errors.Is(err, auth.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, auth.ErrSelfAction):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailSend):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email could not be sent"})
	default:
		log.Printf("handler: internal error on %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
}

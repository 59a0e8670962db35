package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type verifyEmailReq struct {
	Token string `json:"token"`
}

type resendVerificationReq struct {
	Email string `json:"email"`
}

// VerifyEmail consumes an email-verification token.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Svc.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Email verified successfully! You can now login.",
	})
}

// ResendVerification mints and mails a fresh verification token. The
// response for an unknown email is identical to the success case.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendVerificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Svc.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "If that email exists and is unverified, a new verification email has been sent",
	})
}

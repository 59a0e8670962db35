package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-api/internal/auth"
	"github.com/iliyamo/user-auth-api/internal/middleware"
)

// refreshCookieName is the cookie carrying the refresh token. HTTP-only
// and SameSite=Strict keep it out of scripts and cross-site requests.
const refreshCookieName = "refreshToken"

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
	Svc          *auth.Service
	CookieMaxAge time.Duration // refresh token lifetime
	SecureCookie bool          // true in production
}

func NewAuthHandler(svc *auth.Service, cookieMaxAge time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, CookieMaxAge: cookieMaxAge, SecureCookie: secure}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an unverified account and triggers the verification
// email. No tokens are issued: the user cannot log in until verified.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.Svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Registration successful! Please check your email to verify your account.",
		"user":    user,
	})
}

// Login verifies credentials, returns the access token in the body and
// the refresh token via the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, res.RefreshToken)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   res.AccessToken,
		"user":    res.User,
	})
}

// Refresh exchanges the cookie's refresh token for a new pair and rotates
// the cookie. A missing cookie and a garbage token get the same rejection.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return writeError(c, auth.ErrInvalidRefreshToken)
	}

	pair, err := h.Svc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   pair.AccessToken,
	})
}

// Logout clears the stored refresh token and the cookie. Requires an
// authenticated caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
	}
	if err := h.Svc.Logout(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
	}
	user, err := h.Svc.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.CookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

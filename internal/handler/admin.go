package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-api/internal/auth"
	"github.com/iliyamo/user-auth-api/internal/middleware"
)

// AdminHandler exposes the user-management endpoints. All routes are
// mounted behind the admin role gate; the self-protection rules live in
// the service.
type AdminHandler struct {
	Svc *auth.Service
}

func NewAdminHandler(svc *auth.Service) *AdminHandler { return &AdminHandler{Svc: svc} }

type updateRoleReq struct {
	Role string `json:"role"`
}

// ListUsers returns all users, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// GetUser returns a single user by id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user, err := h.Svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateUserRole changes a user's role. Admins cannot change their own.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.Svc.UpdateUserRole(c.Request().Context(), actorID, id, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User role updated to " + user.Role,
		"user":    user,
	})
}

// DeleteUser removes a user. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.Svc.DeleteUser(c.Request().Context(), actorID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// Stats returns aggregate counts over the user collection.
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.Svc.UserStats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

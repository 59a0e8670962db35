// Package router wires the HTTP routes to their handlers and gates.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/user-auth-api/internal/config"
	"github.com/iliyamo/user-auth-api/internal/handler"
	"github.com/iliyamo/user-auth-api/internal/middleware"
	"github.com/iliyamo/user-auth-api/internal/model"
	"github.com/iliyamo/user-auth-api/internal/repository"
)

// Register mounts every route. Gate order on protected routes is fixed:
// JWTAuth (who is calling) -> CheckSession (are they still logged in) ->
// RequireRole (may they be here).
func Register(e *echo.Echo, a *handler.AuthHandler, adm *handler.AdminHandler,
	users *repository.UserRepo, cfg config.Config, rdb *redis.Client) {

	e.GET("/healthz", handler.Health)

	protect := middleware.JWTAuth(cfg.JWTSecret)
	session := middleware.CheckSession(users)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	resetLimiter := middleware.NewTokenBucket(config.LoadResetRateLimitConfig(), rdb)

	// Public auth endpoints.
	g := e.Group("/api/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/resend-verification", a.ResendVerification)

	// Password reset flow carries its own, much tighter budget.
	g.POST("/forgot-password", a.ForgotPassword, resetLimiter)
	g.POST("/reset-password", a.ResetPassword, resetLimiter)

	// Endpoints that require a live session.
	g.POST("/change-password", a.ChangePassword, protect, session)
	g.POST("/logout", a.Logout, protect, session)
	g.GET("/me", a.Me, protect, session)

	// Admin endpoints: role is re-read from the store on every request.
	admin := e.Group("/api/admin", protect, session, middleware.RequireRole(users, model.RoleAdmin))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	admin.GET("/users", adm.ListUsers, cache)
	admin.GET("/users/:id", adm.GetUser)
	admin.PUT("/users/:id/role", adm.UpdateUserRole)
	admin.DELETE("/users/:id", adm.DeleteUser)
	admin.GET("/stats", adm.Stats, cache)
}

// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/accounts-service/internal/handler"
	"github.com/iliyamo/accounts-service/internal/middleware"
	"github.com/iliyamo/accounts-service/internal/model"
)

// RegisterRoutes registers the unauthenticated probes. db may be nil, in
// which case /readyz is not mounted.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth mounts the credential endpoints under /v1/auth behind
// limiter, and the bearer-protected endpoints under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.BearerVerifier, users middleware.RoleFinder, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Issues a new bearer token only; the refresh token is not rotated.
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(tokens))
	auth.GET("/me", a.Me)

	// Admin-provisioned accounts are enabled on creation.
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole(users, model.RoleAdmin))
	admin.POST("/users", a.AdminCreateUser)
}

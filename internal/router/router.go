// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/handler"
	"github.com/glampway/yurt-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently the health check only.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the auth endpoints.  Register, login, refresh,
// logout and verify live under /v1/auth without middleware; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/verify", a.Verify)
	g.POST("/verify", a.Verify)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// yurt catalog, slot availability and the price-gated menu.  These are
// the only routes behind the response cache; availability gets its own
// short-TTL instance because it goes stale on every booking insert.
func RegisterPublic(e *echo.Echo, y *handler.YurtHandler, b *handler.BookingHandler, m *handler.MenuHandler, cache, availCache echo.MiddlewareFunc) {
	e.GET("/v1/yurts", y.List, cache)
	e.GET("/v1/bookings/available", b.Availability, availCache)
	e.GET("/v1/menu/categories", m.Categories, cache)
	e.GET("/v1/menu/items", m.Items, cache)
}

// RegisterCron registers scheduler endpoints.  Authentication happens
// inside the handler via the x-cron-secret header, so simple schedulers
// can call either verb.
func RegisterCron(e *echo.Echo, h *handler.CronHandler) {
	e.POST("/v1/cron/bookings-reminder", h.BookingsReminder)
	e.GET("/v1/cron/bookings-reminder", h.BookingsReminder)
}

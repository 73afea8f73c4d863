package router

import (
	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/handler"
	"github.com/glampway/yurt-reservation/internal/middleware"
	"github.com/glampway/yurt-reservation/internal/repository"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT; booking confirmation additionally
// requires the ADMIN role and is registered in its own group.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, o *handler.OrderHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleCustomer, repository.RoleAdmin),
	)
	// GET /v1/bookings/available is registered on the public router so
	// guests can check free slots before signing up.
	g.POST("/bookings", b.Create)
	g.GET("/bookings/my", b.My)
	g.GET("/bookings/:id", b.Get)
	g.POST("/orders", o.Create)
	g.GET("/orders/:id", o.Get)

	// Confirm moves a booking to confirmed and is an administrative
	// action, never a customer one.
	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)
	admin.POST("/bookings/:id/confirm", b.Confirm)
}

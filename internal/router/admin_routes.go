package router

import (
	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/handler"
	"github.com/glampway/yurt-reservation/internal/middleware"
)

// RegisterAdmin registers the admin panel API under /v1/admin.  Login
// and the session probe are open; everything else sits behind the
// session cookie middleware.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, ab *handler.AdminBookingHandler, am *handler.AdminMenuHandler) {
	e.POST("/v1/admin/login", a.Login)
	e.GET("/v1/admin/session", a.Session)
	e.POST("/v1/admin/logout", a.Logout)

	g := e.Group("/v1/admin", middleware.AdminSession())
	g.GET("/dashboard", a.Dashboard)
	g.GET("/users", a.ListUsers)

	g.GET("/bookings", ab.List)
	g.GET("/bookings/:id", ab.Get)
	g.PATCH("/bookings/:id", ab.Update)

	g.POST("/menu", am.CreateItem)
	g.PATCH("/menu/:id", am.UpdateItem)
	g.DELETE("/menu/:id", am.DeleteItem)
}

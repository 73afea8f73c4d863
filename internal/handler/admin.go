package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/config"
	"github.com/glampway/yurt-reservation/internal/middleware"
	"github.com/glampway/yurt-reservation/internal/model"
	"github.com/glampway/yurt-reservation/internal/repository"
)

// AdminHandler serves the admin panel session and read endpoints.  The
// panel authenticates with a shared password and a short-lived cookie
// rather than per-user JWTs.
type AdminHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Bookings *repository.BookingRepo
	Orders   *repository.OrderRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, b *repository.BookingRepo, o *repository.OrderRepo) *AdminHandler {
	if u == nil || b == nil || o == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Users: u, Bookings: b, Orders: o}
}

type adminLoginReq struct {
	Password string `json:"password"`
}

// Login handles POST /v1/admin/login.  A constant-time compare against
// the shared password; success sets the session cookie.
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Cfg.AdminPassword)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid password"})
	}

	cookie := &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    middleware.NewAdminSessionValue(),
		Path:     "/",
		Expires:  time.Now().UTC().Add(middleware.AdminSessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Session handles GET /v1/admin/session, the panel's auth probe.
func (h *AdminHandler) Session(c echo.Context) error {
	cookie, err := c.Cookie(middleware.AdminCookieName)
	authed := err == nil && middleware.ValidAdminSession(cookie.Value)
	return c.JSON(http.StatusOK, echo.Map{"authenticated": authed})
}

// Logout handles POST /v1/admin/logout by expiring the cookie.
func (h *AdminHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Dashboard handles GET /v1/admin/dashboard: headline counters plus the
// five most recent bookings.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	today := time.Now().UTC().Format("2006-01-02")

	users, err := h.Users.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load counters"})
	}
	bookings, err := h.Bookings.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load counters"})
	}
	pending, err := h.Bookings.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load counters"})
	}
	confirmed, err := h.Bookings.CountByStatus(ctx, model.StatusConfirmed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load counters"})
	}
	todayCount, err := h.Bookings.CountByDate(ctx, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load counters"})
	}
	orders, err := h.Orders.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load counters"})
	}
	recent, err := h.Bookings.Recent(ctx, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load recent bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":              users,
		"bookings":           bookings,
		"pending_bookings":   pending,
		"confirmed_bookings": confirmed,
		"todays_bookings":    todayCount,
		"orders":             orders,
		"recent_bookings":    recent,
	})
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

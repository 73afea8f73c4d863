package middleware

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// AdminCookieName is the session cookie set by the admin login endpoint.
const AdminCookieName = "admin_session"

// AdminSessionTTL bounds how long an admin session cookie stays valid.
const AdminSessionTTL = 8 * time.Hour

// NewAdminSessionValue mints a cookie value stamped with the current
// time.  The value is opaque to clients but carries no secret; the
// login endpoint is guarded by the shared admin password.
func NewAdminSessionValue() string {
	payload := "admin:" + strconv.FormatInt(time.Now().UTC().Unix(), 10)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ValidAdminSession reports whether value is a well-formed, unexpired
// admin session stamp.
func ValidAdminSession(value string) bool {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return false
	}
	s := string(raw)
	if !strings.HasPrefix(s, "admin:") {
		return false
	}
	ts, err := strconv.ParseInt(strings.TrimPrefix(s, "admin:"), 10, 64)
	if err != nil {
		return false
	}
	issued := time.Unix(ts, 0)
	now := time.Now().UTC()
	return !issued.After(now) && now.Sub(issued) <= AdminSessionTTL
}

// AdminSession rejects requests lacking a valid admin session cookie.
func AdminSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AdminCookieName)
			if err != nil || !ValidAdminSession(cookie.Value) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "admin session required"})
			}
			return next(c)
		}
	}
}

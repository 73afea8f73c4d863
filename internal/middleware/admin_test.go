package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSessionValueRoundTrip(t *testing.T) {
	assert.True(t, ValidAdminSession(NewAdminSessionValue()))
}

func TestValidAdminSessionRejectsGarbage(t *testing.T) {
	assert.False(t, ValidAdminSession(""))
	assert.False(t, ValidAdminSession("not-base64!!"))
	assert.False(t, ValidAdminSession(base64.StdEncoding.EncodeToString([]byte("user:123"))))
	assert.False(t, ValidAdminSession(base64.StdEncoding.EncodeToString([]byte("admin:abc"))))
}

func TestValidAdminSessionRejectsExpired(t *testing.T) {
	stale := time.Now().UTC().Add(-AdminSessionTTL - time.Minute).Unix()
	value := base64.StdEncoding.EncodeToString([]byte("admin:" + strconv.FormatInt(stale, 10)))
	assert.False(t, ValidAdminSession(value))
}

func TestValidAdminSessionRejectsFutureStamp(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour).Unix()
	value := base64.StdEncoding.EncodeToString([]byte("admin:" + strconv.FormatInt(future, 10)))
	assert.False(t, ValidAdminSession(value))
}

func TestAdminSessionMiddleware(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := AdminSession()(next)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: NewAdminSessionValue()})
		rec := httptest.NewRecorder()
		require.NoError(t, mw(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

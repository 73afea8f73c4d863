package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glampway/yurt-reservation/internal/config"
	"github.com/glampway/yurt-reservation/internal/middleware"
	"github.com/glampway/yurt-reservation/internal/repository"
)

func adminFixture() *AdminHandler {
	cfg := config.Config{AdminPassword: "open-sesame"}
	return NewAdminHandler(cfg,
		repository.NewUserRepo(nil),
		repository.NewBookingRepo(nil),
		repository.NewOrderRepo(nil))
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAdminLoginWrongPassword(t *testing.T) {
	e := echo.New()
	h := adminFixture()

	c, rec := postJSON(e, "/v1/admin/login", `{"password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminLoginMissingPassword(t *testing.T) {
	e := echo.New()
	h := adminFixture()

	c, rec := postJSON(e, "/v1/admin/login", `{}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminLoginSetsSessionCookie(t *testing.T) {
	e := echo.New()
	h := adminFixture()

	c, rec := postJSON(e, "/v1/admin/login", `{"password":"open-sesame"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AdminCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, middleware.ValidAdminSession(cookies[0].Value))
}

func TestAdminSessionProbe(t *testing.T) {
	e := echo.New()
	h := adminFixture()

	t.Run("without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/session", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Session(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("with cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/session", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: middleware.NewAdminSessionValue()})
		rec := httptest.NewRecorder()
		require.NoError(t, h.Session(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	})
}

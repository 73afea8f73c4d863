package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glampway/yurt-reservation/internal/utils"
)

const testSecret = "test-secret"

func authedContext(t *testing.T, e *echo.Echo, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/my", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTAuthValidToken(t *testing.T) {
	e := echo.New()
	access, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 5)
	require.NoError(t, err)

	var gotID uint64
	var gotRole string
	next := func(c echo.Context) error {
		id, ok := UserID(c)
		require.True(t, ok)
		gotID = id
		gotRole, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	}

	c, rec := authedContext(t, e, access.Token)
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), gotID)
	assert.Equal(t, "CUSTOMER", gotRole)
}

func TestJWTAuthMissingToken(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c, rec := authedContext(t, e, "")
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	e := echo.New()
	access, err := utils.NewAccessToken("other-secret", 1, "CUSTOMER", 5)
	require.NoError(t, err)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c, rec := authedContext(t, e, access.Token)
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("ADMIN")(next)

	t.Run("allowed", func(t *testing.T) {
		c, rec := authedContext(t, e, "")
		c.Set("role", "ADMIN")
		require.NoError(t, mw(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		c, rec := authedContext(t, e, "")
		c.Set("role", "CUSTOMER")
		require.NoError(t, mw(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing role", func(t *testing.T) {
		c, rec := authedContext(t, e, "")
		require.NoError(t, mw(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

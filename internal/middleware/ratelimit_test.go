package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/glampway/yurt-reservation/internal/config"
)

func rateContext(target, ip string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(target)
	return c
}

func TestRateKeyBucketsByIPAndRoute(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}

	a := rateKey(cfg, rateContext("/v1/yurts", "10.0.0.1"))
	b := rateKey(cfg, rateContext("/v1/yurts", "10.0.0.2"))
	other := rateKey(cfg, rateContext("/v1/menu/items", "10.0.0.1"))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, other)

	// identity is unknown at this point in the chain, so two requests
	// from the same IP share one bucket regardless of credentials
	authed := rateContext("/v1/yurts", "10.0.0.1")
	authed.Request().Header.Set(echo.HeaderAuthorization, "Bearer token-a")
	assert.Equal(t, a, rateKey(cfg, authed))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/glampway/yurt-reservation/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{http.MethodGet: true},
		TTL:     30 * time.Second,
		Prefix:  "cache",
	}
}

func cacheContext(target string, mutate func(*http.Request)) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestCacheKeySeparatesConcretePaths(t *testing.T) {
	cfg := cacheTestConfig()

	// two bookings sharing the route pattern /v1/bookings/:id must
	// never share a cache entry
	a := cacheContext("/v1/bookings/1", nil)
	a.SetPath("/v1/bookings/:id")
	b := cacheContext("/v1/bookings/2", nil)
	b.SetPath("/v1/bookings/:id")
	assert.NotEqual(t, cacheKey(cfg, a), cacheKey(cfg, b))

	// distinct queries on the same path stay separate, identical
	// requests collapse to one key
	avail1 := cacheContext("/v1/bookings/available?yurt_id=1&date=2026-09-01", nil)
	avail2 := cacheContext("/v1/bookings/available?yurt_id=2&date=2026-09-01", nil)
	avail1b := cacheContext("/v1/bookings/available?yurt_id=1&date=2026-09-01", nil)
	assert.NotEqual(t, cacheKey(cfg, avail1), cacheKey(cfg, avail2))
	assert.Equal(t, cacheKey(cfg, avail1), cacheKey(cfg, avail1b))
}

func TestCredentialedRequestsBypassCache(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		c := cacheContext("/v1/bookings/my", func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer token-a")
		})
		assert.True(t, credentialed(c))
	})

	t.Run("admin cookie", func(t *testing.T) {
		c := cacheContext("/v1/admin/bookings", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AdminCookieName, Value: NewAdminSessionValue()})
		})
		assert.True(t, credentialed(c))
	})

	t.Run("anonymous", func(t *testing.T) {
		c := cacheContext("/v1/yurts", nil)
		assert.False(t, credentialed(c))
	})
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glampway/yurt-reservation/internal/config"
	"github.com/glampway/yurt-reservation/internal/repository"
)

func TestBookingsReminderRejectsBadSecret(t *testing.T) {
	e := echo.New()
	h := NewCronHandler(config.Config{CronSecret: "sweep-secret"}, repository.NewBookingRepo(nil))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong secret", "guess"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/cron/bookings-reminder", nil)
			if tc.header != "" {
				req.Header.Set("x-cron-secret", tc.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, h.BookingsReminder(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

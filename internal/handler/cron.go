package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/glampway/yurt-reservation/internal/config"
	"github.com/glampway/yurt-reservation/internal/queue"
	"github.com/glampway/yurt-reservation/internal/repository"
	queue_publisher "github.com/glampway/yurt-reservation/internal/service"
)

// CronHandler serves scheduler-triggered jobs.  The caller proves
// itself with the x-cron-secret header; there is no user identity.
type CronHandler struct {
	Cfg      config.Config
	Bookings *repository.BookingRepo
}

func NewCronHandler(cfg config.Config, b *repository.BookingRepo) *CronHandler {
	if b == nil {
		panic("nil repository passed to NewCronHandler")
	}
	return &CronHandler{Cfg: cfg, Bookings: b}
}

// BookingsReminder handles POST (and GET, for simple schedulers) on
// /v1/cron/bookings-reminder.  It dispatches one reminder notification
// per active booking scheduled for tomorrow.  Publish failures are
// counted, not fatal; the sweep always reports what it processed.
func (h *CronHandler) BookingsReminder(c echo.Context) error {
	secret := c.Request().Header.Get("x-cron-secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.Cfg.CronSecret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	due, err := h.Bookings.DueReminders(ctx, tomorrow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}

	successful := 0
	failed := 0
	for _, b := range due {
		err := queue_publisher.PublishBookingReminder(ctx, queue.BookingReminderEvent{
			BookingID:   b.ID,
			UserEmail:   b.UserEmail,
			UserPhone:   b.UserPhone,
			YurtName:    b.YurtName,
			BookingDate: b.Date,
			TimeSlot:    b.Slot,
			Status:      b.Status,
		})
		if err != nil {
			logrus.WithError(err).WithField("booking_id", b.ID).Warn("reminder dispatch failed")
			failed++
			continue
		}
		successful++
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "reminder sweep complete",
		"processed":  len(due),
		"successful": successful,
		"failed":     failed,
		"bookings":   due,
	})
}

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/middleware"
	"github.com/glampway/yurt-reservation/internal/model"
	"github.com/glampway/yurt-reservation/internal/queue"
	"github.com/glampway/yurt-reservation/internal/repository"
	queue_publisher "github.com/glampway/yurt-reservation/internal/service"
)

// BookingHandler serves the customer booking flow: availability lookup,
// creation, retrieval and the administrative confirm.  Writes run inside
// transactions; slot exclusivity rests on the unique index, not on a
// prior read.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Yurts    *repository.YurtRepo
	Users    *repository.UserRepo
}

func NewBookingHandler(b *repository.BookingRepo, y *repository.YurtRepo, u *repository.UserRepo) *BookingHandler {
	if b == nil || y == nil || u == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Yurts: y, Users: u}
}

// validDate is not a full calendar validation; MySQL rejects impossible
// dates on insert.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Availability handles GET /v1/bookings/available.  Public: no auth.
// The response partitions the slot catalog into available and booked
// for one yurt and date.
func (h *BookingHandler) Availability(c echo.Context) error {
	yurtParam := c.QueryParam("yurt_id")
	date := c.QueryParam("date")
	if yurtParam == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "yurt_id and date are required"})
	}
	yurtID, err := strconv.ParseUint(yurtParam, 10, 64)
	if err != nil || yurtID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid yurt_id"})
	}
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	if _, err := h.Yurts.GetByID(ctx, yurtID); err != nil {
		if errors.Is(err, repository.ErrYurtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "yurt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	booked, err := h.Bookings.BookedSlots(ctx, yurtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"date":            date,
		"yurt_id":         yurtID,
		"available_slots": model.AvailableSlots(booked),
		"booked_slots":    booked,
	})
}

type createBookingReq struct {
	YurtID uint64 `json:"yurt_id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// Create handles POST /v1/bookings.  The insert relies on the
// uq_bookings_active_slot index for exclusivity: two concurrent
// requests for the same slot race at the database, and the loser gets
// 409.  On success a booking.created notification is queued
// fire-and-forget.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.YurtID == 0 || req.Date == "" || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "yurt_id, date and time are required"})
	}
	if !validDate(req.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if !model.ValidSlot(req.Time) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown time slot"})
	}

	ctx := c.Request().Context()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !u.EmailVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	yurtName, err := h.Yurts.NameTx(ctx, tx, req.YurtID)
	if err != nil {
		if errors.Is(err, repository.ErrYurtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "yurt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	b := repository.Booking{
		UserID: userID,
		YurtID: req.YurtID,
		Date:   req.Date,
		Slot:   req.Time,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot is already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Notification failures never undo a committed booking.
	_ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:   b.ID,
		UserID:      userID,
		UserEmail:   u.Email,
		YurtID:      b.YurtID,
		YurtName:    yurtName,
		BookingDate: b.Date,
		TimeSlot:    b.Slot,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking created",
		"booking": b,
	})
}

// Get handles GET /v1/bookings/:id.  Existence is checked before
// ownership so an unknown ID is 404 and a foreign one 403.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	d, err := h.Bookings.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if d.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": d})
}

// My handles GET /v1/bookings/my.
func (h *BookingHandler) My(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Confirm handles POST /v1/bookings/:id/confirm.  Routed behind the
// ADMIN role; the transition table decides whether the move is legal,
// so a confirmed or cancelled booking is rejected here, not ignored.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if !model.CanTransition(b.Status, model.StatusConfirmed) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": model.TransitionError(b.Status, model.StatusConfirmed).Error()})
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, id, model.StatusConfirmed); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	b.Status = model.StatusConfirmed
	b.UpdatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking confirmed",
		"booking": b,
	})
}

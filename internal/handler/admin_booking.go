package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/model"
	"github.com/glampway/yurt-reservation/internal/repository"
)

// AdminBookingHandler serves the admin panel's booking list and update
// endpoints.  Status changes go through the same transition table as
// the customer-facing confirm; the admin path has no bypass.
type AdminBookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewAdminBookingHandler(b *repository.BookingRepo) *AdminBookingHandler {
	if b == nil {
		panic("nil repository passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: b}
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// List handles GET /v1/admin/bookings with optional status filter and
// page/limit pagination.
func (h *AdminBookingHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && status != "all" && !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	limit := defaultPageLimit
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		limit = l
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
	}

	details, total, err := h.Bookings.ListAll(c.Request().Context(), status, limit, (page-1)*limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": details,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// Get handles GET /v1/admin/bookings/:id.
func (h *AdminBookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	d, err := h.Bookings.AdminGetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": d})
}

type adminUpdateReq struct {
	Status     *string `json:"status"`
	PaymentRef *string `json:"payment_ref"`
}

// Update handles PATCH /v1/admin/bookings/:id.  Either field may be
// supplied; both are applied in one transaction.  Illegal status moves
// are rejected by the transition table.
func (h *AdminBookingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req adminUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Status == nil && req.PaymentRef == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
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

	if req.Status != nil {
		if !model.CanTransition(b.Status, *req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": model.TransitionError(b.Status, *req.Status).Error()})
		}
		if err := h.Bookings.UpdateStatusTx(ctx, tx, id, *req.Status); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
		}
	}
	if req.PaymentRef != nil {
		ref := req.PaymentRef
		if strings.TrimSpace(*ref) == "" {
			ref = nil // blank clears the reference
		}
		if err := h.Bookings.UpdatePaymentRefTx(ctx, tx, id, ref); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	d, err := h.Bookings.AdminGetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "booking": d})
}

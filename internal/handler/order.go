package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/middleware"
	"github.com/glampway/yurt-reservation/internal/model"
	"github.com/glampway/yurt-reservation/internal/repository"
)

// OrderHandler serves food ordering against a confirmed booking.  The
// order header and all line items are written in one transaction, with
// unit prices snapshotted from the menu inside the same transaction.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Bookings *repository.BookingRepo
	Menu     *repository.MenuRepo
}

func NewOrderHandler(o *repository.OrderRepo, b *repository.BookingRepo, m *repository.MenuRepo) *OrderHandler {
	if o == nil || b == nil || m == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: o, Bookings: b, Menu: m}
}

type createOrderReq struct {
	BookingID uint64              `json:"booking_id"`
	Items     []model.LineRequest `json:"items"`
}

// Create handles POST /v1/orders.  The booking must exist, belong to
// the caller and be confirmed.  A missing or unavailable menu item
// fails the whole order; nothing partial is ever written.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order must contain at least one item"})
	}

	ctx := c.Request().Context()
	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.Bookings.GetForUpdateTx(ctx, tx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	// A foreign booking reads as not found: order access never leaks
	// other customers' booking IDs.
	if booking.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if booking.Status != model.StatusConfirmed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking must be confirmed before ordering"})
	}

	ids := make([]uint64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.MenuItemID)
	}
	menu, err := h.Menu.PricedItemsTx(ctx, tx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load menu items"})
	}

	lines, total, err := model.PriceOrder(req.Items, menu)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	order := repository.Order{
		BookingID:  req.BookingID,
		UserID:     userID,
		TotalCents: total,
	}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	if err := h.Orders.CreateLinesBulkTx(ctx, tx, order.ID, lines); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order items"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	detail, err := h.Orders.GetDetailByID(ctx, order.ID)
	if err != nil {
		// Committed but unreadable; report the essentials.
		return c.JSON(http.StatusCreated, echo.Map{
			"message": "order created",
			"order": echo.Map{
				"id":          order.ID,
				"booking_id":  order.BookingID,
				"total_cents": order.TotalCents,
				"status":      order.Status,
			},
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "order created",
		"order":   detail,
	})
}

// Get handles GET /v1/orders/:id.  Existence before ownership: unknown
// IDs are 404, foreign ones 403.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	d, err := h.Orders.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}
	if d.OwnerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": d})
}

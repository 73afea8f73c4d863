package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/model"
	"github.com/glampway/yurt-reservation/internal/repository"
)

// MenuHandler serves the public menu catalog.  Prices are gated: they
// are only revealed when the request references a confirmed booking,
// because ordering is impossible without one.
type MenuHandler struct {
	Menu     *repository.MenuRepo
	Bookings *repository.BookingRepo
}

func NewMenuHandler(m *repository.MenuRepo, b *repository.BookingRepo) *MenuHandler {
	if m == nil || b == nil {
		panic("nil repository passed to NewMenuHandler")
	}
	return &MenuHandler{Menu: m, Bookings: b}
}

// Categories handles GET /v1/menu/categories.
func (h *MenuHandler) Categories(c echo.Context) error {
	cats, err := h.Menu.ListCategories(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

// gatedItem is a menu item with its price withheld unless the caller
// qualifies.
type gatedItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	PriceCents  *uint32 `json:"price_cents"`
}

type menuCategoryGroup struct {
	ID    uint64      `json:"id"`
	Name  string      `json:"name"`
	Items []gatedItem `json:"items"`
}

// Items handles GET /v1/menu/items.  Available items grouped by
// category in display order.  When booking_id names a confirmed
// booking the response carries prices; otherwise every price is null
// and show_prices is false.
func (h *MenuHandler) Items(c echo.Context) error {
	ctx := c.Request().Context()

	showPrices := false
	if param := c.QueryParam("booking_id"); param != "" {
		if bookingID, err := strconv.ParseUint(param, 10, 64); err == nil && bookingID != 0 {
			if b, err := h.Bookings.GetByID(ctx, bookingID); err == nil && b.Status == model.StatusConfirmed {
				showPrices = true
			}
		}
	}

	items, err := h.Menu.ListAvailableItems(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load menu"})
	}

	// Items arrive ordered by category sort order, so grouping keeps
	// display order without another sort.
	groups := make([]menuCategoryGroup, 0)
	index := make(map[uint64]int)
	for _, m := range items {
		gi, ok := index[m.CategoryID]
		if !ok {
			gi = len(groups)
			index[m.CategoryID] = gi
			groups = append(groups, menuCategoryGroup{ID: m.CategoryID, Name: m.CategoryName, Items: make([]gatedItem, 0, 4)})
		}
		item := gatedItem{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			ImageURL:    m.ImageURL,
		}
		if showPrices {
			price := m.PriceCents
			item.PriceCents = &price
		}
		groups[gi].Items = append(groups[gi].Items, item)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show_prices": showPrices,
		"categories":  groups,
	})
}

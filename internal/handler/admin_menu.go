package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/repository"
)

// AdminMenuHandler provides menu item CRUD for the admin panel.
type AdminMenuHandler struct {
	Menu *repository.MenuRepo
}

func NewAdminMenuHandler(m *repository.MenuRepo) *AdminMenuHandler {
	if m == nil {
		panic("nil repository passed to NewAdminMenuHandler")
	}
	return &AdminMenuHandler{Menu: m}
}

func validateItemInput(in repository.ItemInput) error {
	if in.CategoryID == 0 {
		return errors.New("category_id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// CreateItem handles POST /v1/admin/menu.
func (h *AdminMenuHandler) CreateItem(c echo.Context) error {
	var in repository.ItemInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validateItemInput(in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Menu.CreateItem(c.Request().Context(), in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create menu item"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

// UpdateItem handles PATCH /v1/admin/menu/:id.
func (h *AdminMenuHandler) UpdateItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	var in repository.ItemInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validateItemInput(in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Menu.UpdateItem(c.Request().Context(), id, in); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update menu item"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteItem handles DELETE /v1/admin/menu/:id.  Items referenced by
// historical order lines cannot be deleted; mark them unavailable
// instead.
func (h *AdminMenuHandler) DeleteItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	if err := h.Menu.DeleteItem(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrMenuItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item is referenced by existing orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete menu item"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

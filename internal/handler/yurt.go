package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glampway/yurt-reservation/internal/repository"
)

// YurtHandler serves the public yurt catalog.
type YurtHandler struct {
	Yurts *repository.YurtRepo
}

func NewYurtHandler(y *repository.YurtRepo) *YurtHandler {
	if y == nil {
		panic("nil repository passed to NewYurtHandler")
	}
	return &YurtHandler{Yurts: y}
}

// List handles GET /v1/yurts.
func (h *YurtHandler) List(c echo.Context) error {
	yurts, err := h.Yurts.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load yurts"})
	}
	return c.JSON(http.StatusOK, echo.Map{"yurts": yurts})
}

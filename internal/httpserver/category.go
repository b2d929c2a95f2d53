package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) GetCategories(c echo.Context) error {
	items, err := h.Svc.GetCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	id, err := parseID(c, "Category")
	if err != nil {
		return err
	}
	category, err := h.Svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	var req transport.CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.Svc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHTTP) PatchCategory(c echo.Context) error {
	id, err := parseID(c, "Category")
	if err != nil {
		return err
	}
	var req transport.PatchCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.Svc.PatchCategory(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "Category")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Category deleted successfully."})
}

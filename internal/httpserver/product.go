package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/util"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	res, err := h.Svc.GetProducts(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	id, err := parseID(c, "Product")
	if err != nil {
		return err
	}
	product, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	res, err := h.Svc.SearchProducts(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "product.create")

	var req transport.CreateProductRequest
	if err := bind(c, &req); err != nil {
		l.WithError(err).Warn("product_create_bind_error")
		return err
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return err
	}

	l.WithField("product_id", product.ID).Info("create_product_success")
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "product.patch")

	id, err := parseID(c, "Product")
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := bind(c, &req); err != nil {
		l.WithError(err).Warn("product_patch_bind_error")
		return err
	}

	product, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return err
	}

	l.WithField("product_id", product.ID).Info("patch_product_success")
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "Product")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}

	logging.FromContext(c.Request().Context()).WithField("product_id", id).Info("delete_product_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully."})
}

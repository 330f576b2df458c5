package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return fail(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_error", "id is not a positive integer", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_product_error", "id is not a positive integer", err)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_product_error", "invalid body", err)
	}

	product, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return fail(l, "update_product_error", err)
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_product_error", "id is not a positive integer", err)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

// SearchProducts accepts name, q, min_price, max_price and above query
// parameters; they combine with AND.
func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	f := models.ProductFilter{
		Name:    c.QueryParam("name"),
		Keyword: c.QueryParam("q"),
	}
	for param, dst := range map[string]**decimal.Decimal{
		"min_price": &f.MinPrice,
		"max_price": &f.MaxPrice,
		"above":     &f.Above,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return badRequest(l, "search_products_error", param+" is not a number", err)
		}
		*dst = &d
	}

	items, err := h.Svc.SearchProducts(ctx, f)
	if err != nil {
		return fail(l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

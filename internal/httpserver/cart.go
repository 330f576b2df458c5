package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	customerID, err := parseID(c, "customerId")
	if err != nil {
		return badRequest(l, "get_cart_error", "customer id is not a positive integer", err)
	}

	lines, err := h.Svc.ListCart(ctx, customerID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, lines)
}

// AddToCart answers 201 with the resulting line, or 204 when the merged
// quantity left nothing in the cart.
func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}
	if req.CustomerID == 0 || req.ProductID == 0 {
		return badRequest(l, "add_to_cart_error", "customer_id and product_id are required", nil)
	}

	removed, line, err := h.Svc.AddOrUpdate(ctx, req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}
	if removed {
		l.Info("add_to_cart_removed", "customer_id", req.CustomerID, "product_id", req.ProductID)
		return c.NoContent(http.StatusNoContent)
	}

	l.Info("add_to_cart_success", "cart_item_id", line.ID, "quantity", line.Quantity)
	return c.JSON(http.StatusCreated, line)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	id, err := parseID(c, "cartItemId")
	if err != nil {
		return badRequest(l, "set_quantity_error", "cart item id is not a positive integer", err)
	}
	raw := c.QueryParam("quantity")
	if raw == "" {
		return badRequest(l, "set_quantity_error", "quantity is required", errors.New("missing quantity"))
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return badRequest(l, "set_quantity_error", "quantity is not an integer", err)
	}

	removed, line, err := h.Svc.SetQuantity(ctx, id, quantity)
	if err != nil {
		return fail(l, "set_quantity_error", err)
	}
	if removed {
		l.Info("set_quantity_removed", "cart_item_id", id)
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	id, err := parseID(c, "cartItemId")
	if err != nil {
		return badRequest(l, "remove_item_error", "cart item id is not a positive integer", err)
	}

	if err := h.Svc.RemoveItem(ctx, id); err != nil {
		return fail(l, "remove_item_error", err)
	}

	l.Info("remove_item_success", "cart_item_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	customerID, err := parseID(c, "customerId")
	if err != nil {
		return badRequest(l, "clear_cart_error", "customer id is not a positive integer", err)
	}

	removed, err := h.Svc.ClearCart(ctx, customerID)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success", "customer_id", customerID, "removed", removed)
	return c.NoContent(http.StatusNoContent)
}

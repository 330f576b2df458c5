package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.list")

	items, err := h.Svc.ListCustomers(ctx)
	if err != nil {
		return fail(l, "list_customers_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_customer_error", "id is not a positive integer", err)
	}

	customer, err := h.Svc.GetCustomer(ctx, id)
	if err != nil {
		return fail(l, "get_customer_error", err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create")

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_customer_error", "invalid body", err)
	}

	customer, err := h.Svc.CreateCustomer(ctx, req)
	if err != nil {
		return fail(l, "create_customer_error", err)
	}

	l.Info("create_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHTTP) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_customer_error", "id is not a positive integer", err)
	}

	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_customer_error", "invalid body", err)
	}

	customer, err := h.Svc.UpdateCustomer(ctx, id, req)
	if err != nil {
		return fail(l, "update_customer_error", err)
	}

	l.Info("update_customer_success", "customer_id", id)
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_customer_error", "id is not a positive integer", err)
	}

	if err := h.Svc.DeleteCustomer(ctx, id); err != nil {
		return fail(l, "delete_customer_error", err)
	}

	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CustomerHTTP) SearchCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.search")

	items, err := h.Svc.SearchCustomers(ctx, models.CustomerFilter{
		Email:   c.QueryParam("email"),
		Prefix:  c.QueryParam("prefix"),
		Keyword: c.QueryParam("q"),
	})
	if err != nil {
		return fail(l, "search_customers_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

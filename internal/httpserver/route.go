package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/pkg/db"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

type Deps struct {
	CatalogHandler  *CatalogHTTP
	CustomerHandler *CustomerHTTP
	CartHandler     *CartHTTP
	DB              *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", Root)
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, d.DB); err != nil {
			logging.FromContext(ctx).Warn("readiness_error", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	customers := api.Group("/customers")
	customers.GET("", d.CustomerHandler.ListCustomers)
	customers.GET("/search", d.CustomerHandler.SearchCustomers)
	customers.GET("/:id", d.CustomerHandler.GetCustomer)
	customers.POST("", d.CustomerHandler.CreateCustomer)
	customers.PUT("/:id", d.CustomerHandler.UpdateCustomer)
	customers.DELETE("/:id", d.CustomerHandler.DeleteCustomer)

	cart := api.Group("/cart")
	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("/:customerId", d.CartHandler.GetCart)
	cart.DELETE("/:customerId", d.CartHandler.ClearCart)
	cart.PUT("/items/:cartItemId/quantity", d.CartHandler.SetQuantity)
	cart.DELETE("/items/:cartItemId", d.CartHandler.RemoveItem)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const rootPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Shop API</title></head>
<body>
<h1>Shop API</h1>
<ul>
<li><a href="/api/products">/api/products</a> catalog</li>
<li><a href="/api/customers">/api/customers</a> customers</li>
<li>/api/cart/{customerId} shopping carts</li>
</ul>
</body>
</html>
`

func Root(c echo.Context) error {
	return c.HTML(http.StatusOK, rootPage)
}

package transport

import "github.com/shopspring/decimal"

// Money goes over the wire as JSON numbers wherever these types are encoded.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductRequest is the full representation used by create and update;
// update replaces every field.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AddToCartRequest struct {
	CustomerID uint `json:"customer_id"`
	ProductID  uint `json:"product_id"`
	Quantity   int  `json:"quantity"`
}

// CartLine is a cart item joined with its product's current name and price.
// ItemTotal is computed on every read and never stored.
type CartLine struct {
	ID           uint            `json:"id"`
	CustomerID   uint            `json:"customer_id"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	ItemTotal    decimal.Decimal `json:"item_total"`
}

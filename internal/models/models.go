package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null;index"              json:"name"`
	Description string          `gorm:"not null;default:''"         json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

type Customer struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null;index"           json:"name"`
	Email string `gorm:"not null;uniqueIndex"     json:"email"`
}

// CartItem is one line of a customer's cart. At most one row exists per
// (customer, product) pair and quantity is always positive.
type CartItem struct {
	ID         uint `gorm:"primaryKey;autoIncrement"                                json:"id"`
	CustomerID uint `gorm:"uniqueIndex:idx_cart_customer_product;not null"          json:"customer_id"`
	ProductID  uint `gorm:"uniqueIndex:idx_cart_customer_product;index;not null"    json:"product_id"`
	Quantity   int  `gorm:"not null;check:quantity>0"                               json:"quantity"`

	Product  Product  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Customer Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// ProductFilter narrows a catalog search. Zero fields are ignored; price
// bounds are inclusive except Above.
type ProductFilter struct {
	Name     string
	Keyword  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Above    *decimal.Decimal
}

type CustomerFilter struct {
	Email   string
	Prefix  string
	Keyword string
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{}, &Customer{}, &CartItem{})
}

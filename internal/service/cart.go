package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/events"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func toLine(item models.CartItem, product models.Product) transport.CartLine {
	return transport.CartLine{
		ID:           item.ID,
		CustomerID:   item.CustomerID,
		ProductID:    item.ProductID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     item.Quantity,
		ItemTotal:    LineTotal(product.Price, item.Quantity),
	}
}

type cartEvent struct {
	CartItemID uint  `json:"cart_item_id,omitempty"`
	CustomerID uint  `json:"customer_id"`
	ProductID  uint  `json:"product_id,omitempty"`
	Quantity   int   `json:"quantity,omitempty"`
	Removed    int64 `json:"removed,omitempty"`
}

// ListCart returns the customer's cart lines, ordered by cart item id.
func (s *CartService) ListCart(ctx context.Context, customerID uint) ([]transport.CartLine, error) {
	var items []models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCustomer(ctx, customerID); err != nil {
			return notFound(EntityCustomer, customerID, err)
		}
		var err error
		items, err = tx.ListCartItems(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	lines := make([]transport.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, toLine(item, item.Product))
	}
	return lines, nil
}

// addEventType names the event for a line written by AddOrUpdate. An insert
// that hit a row created concurrently was merged by the upsert, which shows as
// a saved quantity different from the one requested.
func addEventType(inserted bool, requested, saved int) string {
	if inserted && saved == requested {
		return "cart_item_added"
	}
	return "cart_item_updated"
}

// AddOrUpdate adds quantity to the customer's line for the product, creating
// the line when there is none. A resulting quantity <= 0 leaves no line and
// reports removed.
func (s *CartService) AddOrUpdate(ctx context.Context, customerID, productID uint, quantity int) (bool, *transport.CartLine, error) {
	var (
		removed bool
		created bool
		line    transport.CartLine
		itemID  uint
	)

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCustomer(ctx, customerID); err != nil {
			return notFound(EntityCustomer, customerID, err)
		}
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return notFound(EntityProduct, productID, err)
		}

		existing, err := tx.FindCartItem(ctx, customerID, productID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity <= 0 {
				removed = true
				return nil
			}
			item := models.CartItem{CustomerID: customerID, ProductID: productID, Quantity: quantity}
			if err := tx.UpsertCartItem(ctx, &item); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			itemID = existing.ID
			if quantity > 0 && existing.Quantity > math.MaxInt-quantity {
				return fmt.Errorf("%w: quantity overflow", ErrValidation)
			}
			merged := existing.Quantity + quantity
			if merged <= 0 {
				removed = true
				return tx.DeleteCartItem(ctx, existing.ID)
			}
			if err := tx.UpdateCartItemQuantity(ctx, existing.ID, merged); err != nil {
				return err
			}
		}

		saved, err := tx.FindCartItem(ctx, customerID, productID)
		if err != nil {
			return err
		}
		line = toLine(*saved, *product)
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	if removed {
		if itemID != 0 {
			logging.FromContext(ctx).Info("cart_item_merged_away", "cart_item_id", itemID, "customer_id", customerID, "product_id", productID)
			publish(ctx, s.Events, events.TopicCart, customerID, "cart_item_removed",
				cartEvent{CartItemID: itemID, CustomerID: customerID, ProductID: productID})
		}
		return true, nil, nil
	}

	publish(ctx, s.Events, events.TopicCart, customerID, addEventType(created, quantity, line.Quantity),
		cartEvent{CartItemID: line.ID, CustomerID: customerID, ProductID: productID, Quantity: line.Quantity})
	return false, &line, nil
}

// SetQuantity replaces the quantity of a cart item. newQuantity <= 0 deletes
// the item and reports removed.
func (s *CartService) SetQuantity(ctx context.Context, cartItemID uint, newQuantity int) (bool, *transport.CartLine, error) {
	var (
		item *models.CartItem
		line transport.CartLine
	)

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		item, err = tx.GetCartItem(ctx, cartItemID)
		if err != nil {
			return notFound(EntityCartItem, cartItemID, err)
		}

		if newQuantity <= 0 {
			return tx.DeleteCartItem(ctx, cartItemID)
		}

		product, err := tx.GetProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := tx.UpdateCartItemQuantity(ctx, cartItemID, newQuantity); err != nil {
			return err
		}
		item.Quantity = newQuantity
		line = toLine(*item, *product)
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	if newQuantity <= 0 {
		publish(ctx, s.Events, events.TopicCart, item.CustomerID, "cart_item_removed",
			cartEvent{CartItemID: cartItemID, CustomerID: item.CustomerID, ProductID: item.ProductID})
		return true, nil, nil
	}

	publish(ctx, s.Events, events.TopicCart, item.CustomerID, "cart_item_updated",
		cartEvent{CartItemID: cartItemID, CustomerID: item.CustomerID, ProductID: item.ProductID, Quantity: newQuantity})
	return false, &line, nil
}

// RemoveItem deletes one cart item. Removing an id that does not exist, including
// one already removed, fails with ErrNotFound.
func (s *CartService) RemoveItem(ctx context.Context, cartItemID uint) error {
	var item *models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		item, err = tx.GetCartItem(ctx, cartItemID)
		if err != nil {
			return notFound(EntityCartItem, cartItemID, err)
		}
		return tx.DeleteCartItem(ctx, cartItemID)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCart, item.CustomerID, "cart_item_removed",
		cartEvent{CartItemID: cartItemID, CustomerID: item.CustomerID, ProductID: item.ProductID})
	return nil
}

// ClearCart deletes every item of an existing customer's cart and returns how
// many were removed. An empty cart is cleared successfully.
func (s *CartService) ClearCart(ctx context.Context, customerID uint) (int64, error) {
	var removed int64
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCustomer(ctx, customerID); err != nil {
			return notFound(EntityCustomer, customerID, err)
		}
		var err error
		removed, err = tx.DeleteCartItemsByCustomer(ctx, customerID)
		return err
	})
	if err != nil {
		return 0, err
	}

	publish(ctx, s.Events, events.TopicCart, customerID, "cart_cleared",
		cartEvent{CustomerID: customerID, Removed: removed})
	return removed, nil
}

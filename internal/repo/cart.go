package repo

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListCartItems loads a customer's items with their products in one joined query.
func (r *GormRepo) ListCartItems(ctx context.Context, customerID uint) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := r.DB.WithContext(ctx).
		Joins("Product").
		Where("cart_items.customer_id = ?", customerID).
		Order("cart_items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.forUpdate(r.DB.WithContext(ctx)).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) FindCartItem(ctx context.Context, customerID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.forUpdate(r.DB.WithContext(ctx)).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertCartItem inserts the item or, when the (customer, product) pair already
// has a row, adds the quantity to it in the same statement.
func (r *GormRepo) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).
		Create(item).Error
}

func (r *GormRepo) UpdateCartItemQuantity(ctx context.Context, id uint, quantity int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.CartItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCartItemsByCustomer(ctx context.Context, customerID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteCartItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

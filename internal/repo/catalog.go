package repo

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs loads the products that still exist among ids, ordered by id.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	items := []models.Product{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// SaveProduct replaces every mutable column of an existing product.
func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", prod.ID).
		Select("name", "description", "price").
		Updates(prod)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) SearchProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.Name != "" {
		q = q.Where("name = ?", f.Name)
	}
	if f.Keyword != "" {
		q = q.Where("LOWER(name) LIKE ?"+likeEscaped, contains(f.Keyword))
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Above != nil {
		q = q.Where("price > ?", *f.Above)
	}

	items := []models.Product{}
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

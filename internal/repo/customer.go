package repo

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	items := []models.Customer{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.DB.WithContext(ctx).Create(customer).Error
}

func (r *GormRepo) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Select("name", "email").
		Updates(customer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCustomer(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormRepo) SearchCustomers(ctx context.Context, f models.CustomerFilter) ([]models.Customer, error) {
	q := r.DB.WithContext(ctx).Model(&models.Customer{})
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.Prefix != "" {
		q = q.Where("name LIKE ?"+likeEscaped, prefix(f.Prefix))
	}
	if f.Keyword != "" {
		q = q.Where("LOWER(name) LIKE ?"+likeEscaped, contains(f.Keyword))
	}

	items := []models.Customer{}
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

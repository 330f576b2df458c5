package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/events"
)

type CustomerService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func validateCustomer(req transport.CustomerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrValidation)
	}
	return nil
}

func emailTaken(email string, err error) error {
	if repo.IsUniqueViolation(err) {
		return fmt.Errorf("%w: email %q is already registered", ErrConflict, email)
	}
	return err
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.Repo.ListCustomers(ctx)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.Repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, notFound(EntityCustomer, id, err)
	}
	return customer, nil
}

func (s *CustomerService) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	customer, err := s.Repo.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, notFound(EntityCustomer, email, err)
	}
	return customer, nil
}

func (s *CustomerService) SearchCustomers(ctx context.Context, f models.CustomerFilter) ([]models.Customer, error) {
	return s.Repo.SearchCustomers(ctx, f)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req transport.CustomerRequest) (*models.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}

	customer := models.Customer{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	if err := s.Repo.CreateCustomer(ctx, &customer); err != nil {
		return nil, emailTaken(customer.Email, err)
	}

	publish(ctx, s.Events, events.TopicCustomers, customer.ID, "customer_created", customer)
	return &customer, nil
}

// UpdateCustomer replaces the name and email of an existing customer.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, req transport.CustomerRequest) (*models.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}

	customer := models.Customer{
		ID:    id,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	}
	if err := s.Repo.SaveCustomer(ctx, &customer); err != nil {
		return nil, emailTaken(customer.Email, notFound(EntityCustomer, id, err))
	}

	publish(ctx, s.Events, events.TopicCustomers, customer.ID, "customer_updated", customer)
	return &customer, nil
}

// DeleteCustomer removes the customer and their whole cart.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	var removed int64
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCustomer(ctx, id); err != nil {
			return notFound(EntityCustomer, id, err)
		}
		var err error
		if removed, err = tx.DeleteCartItemsByCustomer(ctx, id); err != nil {
			return err
		}
		return tx.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCustomers, id, "customer_deleted",
		map[string]any{"id": id, "cart_items_removed": removed})
	return nil
}

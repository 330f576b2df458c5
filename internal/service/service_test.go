package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/dbtest"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/events"
)

type testEnv struct {
	Repo      *repo.GormRepo
	Events    *events.Recorder
	Catalog   *CatalogService
	Customers *CustomerService
	Cart      *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.Open(t)}
	rec := &events.Recorder{}
	return &testEnv{
		Repo:      r,
		Events:    rec,
		Catalog:   &CatalogService{Repo: r, Events: rec},
		Customers: &CustomerService{Repo: r, Events: rec},
		Cart:      &CartService{Repo: r, Events: rec},
	}
}

func (e *testEnv) product(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p, err := e.Catalog.CreateProduct(context.Background(), transport.ProductRequest{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) customer(t *testing.T, name, email string) *models.Customer {
	t.Helper()
	c, err := e.Customers.CreateCustomer(context.Background(), transport.CustomerRequest{Name: name, Email: email})
	require.NoError(t, err)
	return c
}

func (e *testEnv) countCartRows(t *testing.T, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.Repo.DB.Model(&models.CartItem{}).Where(where, args...).Count(&n).Error)
	return n
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

func TestCustomerService_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Customers.CreateCustomer(context.Background(), transport.CustomerRequest{Name: "", Email: "a@b.c"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.Customers.CreateCustomer(context.Background(), transport.CustomerRequest{Name: "Ann", Email: " "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCustomerService_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.customer(t, "Ann", "ann@example.com")
	bob := env.customer(t, "Bob", "bob@example.com")

	_, err := env.Customers.CreateCustomer(ctx, transport.CustomerRequest{Name: "Ann 2", Email: "ann@example.com"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = env.Customers.UpdateCustomer(ctx, bob.ID, transport.CustomerRequest{Name: "Bob", Email: "ann@example.com"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCustomerService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.customer(t, "Ann", "ann@example.com")

	updated, err := env.Customers.UpdateCustomer(ctx, c.ID, transport.CustomerRequest{Name: "Anna", Email: "anna@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)

	got, err := env.Customers.FindByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = env.Customers.FindByEmail(ctx, "ann@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.Customers.UpdateCustomer(ctx, 999, transport.CustomerRequest{Name: "x", Email: "x@example.com"})
	require.ErrorIs(t, err, ErrNotFound)

	all, err := env.Customers.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, env.Customers.DeleteCustomer(ctx, c.ID))
	_, err = env.Customers.GetCustomer(ctx, c.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, env.Customers.DeleteCustomer(ctx, c.ID), ErrNotFound)
}

func TestCustomerService_DeleteCascadesToCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pen := env.product(t, "pen", "1.50")
	ann := env.customer(t, "Ann", "ann@example.com")
	bob := env.customer(t, "Bob", "bob@example.com")

	for _, cid := range []uint{ann.ID, bob.ID} {
		_, _, err := env.Cart.AddOrUpdate(ctx, cid, pen.ID, 2)
		require.NoError(t, err)
	}

	require.NoError(t, env.Customers.DeleteCustomer(ctx, ann.ID))
	assert.EqualValues(t, 0, env.countCartRows(t, "customer_id = ?", ann.ID))
	assert.EqualValues(t, 1, env.countCartRows(t, "customer_id = ?", bob.ID))
}

func TestCustomerService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.customer(t, "Anna Smith", "anna@example.com")
	env.customer(t, "Andrew Stone", "andrew@example.com")
	env.customer(t, "Bob Smithers", "bob@example.com")

	got, err := env.Customers.SearchCustomers(ctx, models.CustomerFilter{Prefix: "An"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = env.Customers.SearchCustomers(ctx, models.CustomerFilter{Keyword: "smith"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Anna Smith", got[0].Name)
	assert.Equal(t, "Bob Smithers", got[1].Name)

	got, err = env.Customers.SearchCustomers(ctx, models.CustomerFilter{Email: "bob@example.com"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob Smithers", got[0].Name)
}

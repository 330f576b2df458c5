package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/events"
)

type fakeIndex struct {
	upserted []models.Product
	deleted  []uint
	filters  []models.ProductFilter
	result   []models.Product
	err      error
}

func (f *fakeIndex) Upsert(_ context.Context, p models.Product) error {
	f.upserted = append(f.upserted, p)
	return f.err
}

func (f *fakeIndex) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	f.filters = append(f.filters, filter)
	return f.result, f.err
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalogService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.ProductRequest
	}{
		{name: "empty name", req: transport.ProductRequest{Name: "", Price: decimal.NewFromInt(1)}},
		{name: "blank name", req: transport.ProductRequest{Name: "   ", Price: decimal.NewFromInt(1)}},
		{name: "negative price", req: transport.ProductRequest{Name: "pen", Price: decimal.NewFromInt(-1)}},
		{name: "sub-cent price", req: transport.ProductRequest{Name: "pen", Price: decimal.RequireFromString("1.999")}},
		{name: "price at column limit", req: transport.ProductRequest{Name: "pen", Price: decimal.New(1, 10)}},
		{name: "price above column limit", req: transport.ProductRequest{Name: "pen", Price: decimal.RequireFromString("123456789012.5")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Catalog.CreateProduct(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	items, err := env.Catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogService_PriceBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.product(t, "safe", "9999999999.99")
	got, err := env.Catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", got.Price.StringFixed(2))

	_, err = env.Catalog.CreateProduct(ctx, transport.ProductRequest{Name: "trailing zeros", Price: decimal.RequireFromString("2.500")})
	require.NoError(t, err)

	_, err = env.Catalog.UpdateProduct(ctx, p.ID, transport.ProductRequest{Name: "safe", Price: decimal.RequireFromString("0.005")})
	require.ErrorIs(t, err, ErrValidation)

	got, err = env.Catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", got.Price.StringFixed(2))
}

func TestCatalogService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.product(t, "pen", "1.50")
	require.NotZero(t, created.ID)

	got, err := env.Catalog.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pen", got.Name)

	updated, err := env.Catalog.UpdateProduct(ctx, created.ID, transport.ProductRequest{
		Name:        "fountain pen",
		Description: "blue",
		Price:       decimal.RequireFromString("12.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "fountain pen", updated.Name)

	got, err = env.Catalog.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "blue", got.Description)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(12)))

	_, err = env.Catalog.UpdateProduct(ctx, 999, transport.ProductRequest{Name: "x", Price: decimal.Zero})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.Catalog.DeleteProduct(ctx, created.ID))
	_, err = env.Catalog.GetProduct(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, env.Catalog.DeleteProduct(ctx, created.ID), ErrNotFound)

	assert.Equal(t,
		[]string{"product_created", "product_updated", "product_deleted"},
		env.Events.Types(events.TopicProducts))
}

func TestCatalogService_DeleteCascadesToCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pen := env.product(t, "pen", "1.50")
	ink := env.product(t, "ink", "3.00")
	ann := env.customer(t, "Ann", "ann@example.com")
	bob := env.customer(t, "Bob", "bob@example.com")

	for _, cid := range []uint{ann.ID, bob.ID} {
		_, _, err := env.Cart.AddOrUpdate(ctx, cid, pen.ID, 1)
		require.NoError(t, err)
		_, _, err = env.Cart.AddOrUpdate(ctx, cid, ink.ID, 1)
		require.NoError(t, err)
	}

	require.NoError(t, env.Catalog.DeleteProduct(ctx, pen.ID))
	assert.EqualValues(t, 0, env.countCartRows(t, "product_id = ?", pen.ID))
	assert.EqualValues(t, 2, env.countCartRows(t, "product_id = ?", ink.ID))
}

func TestCatalogService_SearchFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.product(t, "Red Pen", "1.50")
	env.product(t, "Blue pen", "2.50")
	env.product(t, "Notebook", "7.00")

	got, err := env.Catalog.SearchProducts(ctx, models.ProductFilter{Keyword: "PEN"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Red Pen", got[0].Name)

	got, err = env.Catalog.SearchProducts(ctx, models.ProductFilter{MinPrice: price("2"), MaxPrice: price("7")})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Blue pen", got[0].Name)
	assert.Equal(t, "Notebook", got[1].Name)

	got, err = env.Catalog.SearchProducts(ctx, models.ProductFilter{Above: price("2.50")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Notebook", got[0].Name)

	_, err = env.Catalog.SearchProducts(ctx, models.ProductFilter{MinPrice: price("5"), MaxPrice: price("1")})
	require.ErrorIs(t, err, ErrValidation)

	found, err := env.Catalog.FindProductByName(ctx, "Notebook")
	require.NoError(t, err)
	assert.Equal(t, "Notebook", found.Name)

	_, err = env.Catalog.FindProductByName(ctx, "Stapler")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_UsesIndex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	idx := &fakeIndex{}
	env.Catalog.Index = idx

	p := env.product(t, "pen", "1.50")
	gone := env.product(t, "ink", "3.00")
	require.Len(t, idx.upserted, 2)
	assert.Equal(t, p.ID, idx.upserted[0].ID)
	require.NoError(t, env.Catalog.DeleteProduct(ctx, gone.ID))

	idx.result = []models.Product{
		{ID: gone.ID, Name: "ink"},
		{ID: p.ID, Name: "stale name", Price: decimal.NewFromInt(99)},
	}
	got, err := env.Catalog.SearchProducts(ctx, models.ProductFilter{Keyword: "pen"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, "pen", got[0].Name)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("1.50")))

	got, err = env.Catalog.SearchProducts(ctx, models.ProductFilter{Name: "pen"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Len(t, idx.filters, 1)
	assert.Equal(t, []uint{gone.ID}, idx.deleted)
}

func TestCatalogService_IndexFailureDoesNotFailWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.Catalog.Index = &fakeIndex{err: errors.New("index unavailable")}

	p := env.product(t, "pen", "1.50")
	require.NoError(t, env.Catalog.DeleteProduct(ctx, p.ID))
}

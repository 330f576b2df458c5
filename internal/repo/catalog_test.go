package repo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/dbtest"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

func names(items []models.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func TestSearchProducts_KeywordIsLiteral(t *testing.T) {
	r := &repo.GormRepo{DB: dbtest.Open(t)}
	ctx := context.Background()

	for _, name := range []string{"100% Cotton Tee", "100 Cotton Tee", "snake_case mug", "snakeXcase mug"} {
		require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: name, Description: "organic", Price: decimal.NewFromInt(1)}))
	}

	got, err := r.SearchProducts(ctx, models.ProductFilter{Keyword: "0% cot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Cotton Tee"}, names(got))

	got, err = r.SearchProducts(ctx, models.ProductFilter{Keyword: "E_C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"snake_case mug"}, names(got))

	got, err = r.SearchProducts(ctx, models.ProductFilter{Keyword: "organic"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetProductsByIDs(t *testing.T) {
	r := &repo.GormRepo{DB: dbtest.Open(t)}
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"pen", "ink", "pad"} {
		p := models.Product{Name: name, Price: decimal.NewFromInt(1)}
		require.NoError(t, r.CreateProduct(ctx, &p))
		ids = append(ids, p.ID)
	}

	got, err := r.GetProductsByIDs(ctx, []uint{ids[2], 9999, ids[0]})
	require.NoError(t, err)
	assert.Equal(t, []string{"pen", "pad"}, names(got))

	got, err = r.GetProductsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

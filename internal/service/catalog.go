package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/transport"
	"github.com/Skotchmaster/shop_backend/pkg/events"
	"github.com/Skotchmaster/shop_backend/pkg/logging"
)

// ProductIndex mirrors the catalog into a text search engine.
type ProductIndex interface {
	Upsert(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndex
	Events events.Publisher
}

// maxPrice is the first value a numeric(12,2) price column cannot hold.
var maxPrice = decimal.New(1, 10)

func validateProduct(req transport.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if !req.Price.Equal(req.Price.Round(2)) {
		return fmt.Errorf("%w: price has more than 2 decimal places", ErrValidation)
	}
	if req.Price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price must be below %s", ErrValidation, maxPrice)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(EntityProduct, id, err)
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, product)
	publish(ctx, s.Events, events.TopicProducts, product.ID, "product_created", product)
	return &product, nil
}

// UpdateProduct replaces every field of an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := models.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.Repo.SaveProduct(ctx, &product); err != nil {
		return nil, notFound(EntityProduct, id, err)
	}

	s.syncIndex(ctx, product)
	publish(ctx, s.Events, events.TopicProducts, product.ID, "product_updated", product)
	return &product, nil
}

// DeleteProduct removes the product together with every cart item that
// references it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	var removed int64
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetProduct(ctx, id); err != nil {
			return notFound(EntityProduct, id, err)
		}
		var err error
		if removed, err = tx.DeleteCartItemsByProduct(ctx, id); err != nil {
			return err
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Error("index_delete_error", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, id, "product_deleted",
		map[string]any{"id": id, "cart_items_removed": removed})
	return nil
}

// SearchProducts serves exact-name lookups from the store and everything else
// from the index when one is configured. Index hits are reloaded from the
// store so results carry current data and skip products deleted since they
// were indexed.
func (s *CatalogService) SearchProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, fmt.Errorf("%w: min_price is greater than max_price", ErrValidation)
	}
	if s.Index == nil || f.Name != "" {
		return s.Repo.SearchProducts(ctx, f)
	}

	hits, err := s.Index.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return s.Repo.GetProductsByIDs(ctx, ids)
}

func (s *CatalogService) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	product, err := s.Repo.FindProductByName(ctx, name)
	if err != nil {
		return nil, notFound(EntityProduct, name, err)
	}
	return product, nil
}

func (s *CatalogService) syncIndex(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Upsert(ctx, p); err != nil {
		logging.FromContext(ctx).Error("index_upsert_error", "product_id", p.ID, "error", err)
	}
}

package config

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/search"
	pkgconfig "github.com/Skotchmaster/shop_backend/pkg/config"
	"github.com/Skotchmaster/shop_backend/pkg/db"
	"github.com/Skotchmaster/shop_backend/pkg/events"
)

// InitDB opens the configured store and migrates the shop tables.
func InitDB(ctx context.Context, cfg pkgconfig.Config) (*gorm.DB, error) {
	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := models.Migrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}

// InitEvents returns a Kafka producer when brokers are configured and a no-op
// publisher otherwise.
func InitEvents(cfg pkgconfig.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	return events.NewKafkaProducer(cfg.KafkaBrokers)
}

// InitSearch connects to Elasticsearch, prepares the product index and
// reindexes the whole catalog from the store, so products written while the
// index was missing or unreachable become searchable. It returns nil when
// ES_URL is unset.
func InitSearch(ctx context.Context, cfg pkgconfig.Config, gdb *gorm.DB) (*search.ProductIndex, error) {
	if cfg.ElasticURL == "" {
		return nil, nil
	}

	client, err := search.NewClient(search.ClientConfig{
		URL:      cfg.ElasticURL,
		Username: cfg.ElasticUser,
		Password: cfg.ElasticPassword,
	})
	if err != nil {
		return nil, err
	}

	idx := &search.ProductIndex{ES: client, Index: cfg.ProductIndex}
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	products, err := (&repo.GormRepo{DB: gdb}).ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog for reindex: %w", err)
	}
	if err := idx.Reindex(ctx, products); err != nil {
		return nil, err
	}
	return idx, nil
}

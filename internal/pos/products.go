package pos

import (
	"context"

	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/internal/warehouse"
	"github.com/rizkypratama/warungpos/pkg/db/models"
)

// NewProductStore narrows the warehouse repository to the register's view of
// the catalog.
func NewProductStore(repo warehouse.ProductRepository) ProductStore {
	return productStore{repo: repo}
}

type productStore struct {
	repo warehouse.ProductRepository
}

func (p productStore) WithTx(tx *gorm.DB) ProductStore {
	return productStore{repo: p.repo.WithTx(tx)}
}

func (p productStore) Get(ctx context.Context, sku string) (*models.Product, error) {
	return p.repo.Get(ctx, sku)
}

func (p productStore) GetMany(ctx context.Context, skus []string) ([]models.Product, error) {
	return p.repo.GetMany(ctx, skus)
}

func (p productStore) AdjustStock(ctx context.Context, sku string, delta int) error {
	return p.repo.AdjustStock(ctx, sku, delta)
}

package warehouse

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/pkg/db/models"
)

// Repository exposes persistence operations for the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// List returns products matching the query as a substring of SKU or name,
// ordered by name. An empty query returns everything.
func (r *Repository) List(ctx context.Context, q string) ([]models.Product, error) {
	scope := r.db.WithContext(ctx).Model(&models.Product{})
	q = strings.TrimSpace(strings.ToLower(q))
	if q != "" {
		like := "%" + q + "%"
		scope = scope.Where("LOWER(sku) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	var products []models.Product
	if err := scope.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Get loads a single product by SKU.
func (r *Repository) Get(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetMany loads the products for the provided SKUs.
func (r *Repository) GetMany(ctx context.Context, skus []string) ([]models.Product, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).Where("sku IN ?", skus).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists the provided product.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock shifts a product's stock by delta. A negative delta is a sale
// decrement; callers are responsible for the sufficiency check.
func (r *Repository) AdjustStock(ctx context.Context, sku string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Stats aggregates catalog counters in one pass.
func (r *Repository) Stats(ctx context.Context, lowStockThreshold int) (totalProducts int, totalStock int64, lowStock int, err error) {
	type row struct {
		TotalProducts int
		TotalStock    int64
		LowStock      int
	}
	var out row
	err = r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COUNT(*) AS total_products, COALESCE(SUM(stock), 0) AS total_stock, COALESCE(SUM(CASE WHEN stock < ? THEN 1 ELSE 0 END), 0) AS low_stock", lowStockThreshold).
		Scan(&out).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return out.TotalProducts, out.TotalStock, out.LowStock, nil
}

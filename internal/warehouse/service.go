package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/pkg/config"
	"github.com/rizkypratama/warungpos/pkg/db/models"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/logger"
	pkgredis "github.com/rizkypratama/warungpos/pkg/redis"
)

// ProductRepository is the persistence surface the service depends on.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	List(ctx context.Context, q string) ([]models.Product, error)
	Get(ctx context.Context, sku string) (*models.Product, error)
	GetMany(ctx context.Context, skus []string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	AdjustStock(ctx context.Context, sku string, delta int) error
	Stats(ctx context.Context, lowStockThreshold int) (int, int64, int, error)
}

// Service exposes catalog operations.
type Service interface {
	Catalog(ctx context.Context, q string) (*CatalogDTO, error)
	Get(ctx context.Context, sku string) (*ProductDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Restock(ctx context.Context, input RestockInput) (*ProductDTO, error)
	Update(ctx context.Context, sku string, input UpdateInput) (*ProductDTO, error)
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo  ProductRepository
	cache pkgredis.CacheStore
	cfg   config.WarehouseConfig
	logg  *logger.Logger
}

// NewService builds a warehouse service. The cache is optional.
func NewService(repo ProductRepository, cache pkgredis.CacheStore, cfg config.WarehouseConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, cache: cache, cfg: cfg, logg: logg}, nil
}

// CatalogDTO is a catalog listing.
type CatalogDTO struct {
	Items []ProductDTO `json:"items"`
}

// ProductDTO is the catalog projection of one product.
type ProductDTO struct {
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	SellPrice     int64     `json:"sellPrice"`
	SupplierPrice int64     `json:"supplierPrice"`
	Stock         int       `json:"stock"`
	WeightKG      float64   `json:"weightKg"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StatsDTO summarizes inventory counters.
type StatsDTO struct {
	TotalProducts int   `json:"totalProducts"`
	TotalStock    int64 `json:"totalStock"`
	LowStock      int   `json:"lowStock"`
}

// CreateInput registers a new product.
type CreateInput struct {
	SKU           string
	Name          string
	SellPrice     int64
	SupplierPrice int64
	Stock         int
	WeightKG      float64
	SupplierID    *int
}

// RestockInput increments stock for one SKU.
type RestockInput struct {
	SKU       string
	Qty       int
	SellPrice *int64
}

// UpdateInput patches product fields. Nil fields are left untouched.
type UpdateInput struct {
	Name          *string
	SellPrice     *int64
	SupplierPrice *int64
	Stock         *int
	WeightKG      *float64
}

// Catalog lists products matching q. The unfiltered listing is served from
// redis when available; filtered queries always hit the database.
func (s *service) Catalog(ctx context.Context, q string) (*CatalogDTO, error) {
	q = strings.TrimSpace(q)
	if q == "" && s.cache != nil {
		if cached := s.cachedCatalog(ctx); cached != nil {
			return cached, nil
		}
	}

	products, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	dto := &CatalogDTO{Items: make([]ProductDTO, 0, len(products))}
	for _, p := range products {
		dto.Items = append(dto.Items, toProductDTO(&p))
	}

	if q == "" && s.cache != nil {
		s.storeCatalog(ctx, dto)
	}
	return dto, nil
}

// Get loads one product.
func (s *service) Get(ctx context.Context, sku string) (*ProductDTO, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	product, err := s.repo.Get(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "barang tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toProductDTO(product)
	return &dto, nil
}

// Stats returns inventory counters using the configured low-stock threshold.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	totalProducts, totalStock, lowStock, err := s.repo.Stats(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate stats")
	}
	return &StatsDTO{
		TotalProducts: totalProducts,
		TotalStock:    totalStock,
		LowStock:      lowStock,
	}, nil
}

// Create registers a new product.
func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	if input.SKU == "" || input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if input.SellPrice < 0 || input.SupplierPrice < 0 || input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices and stock must be non-negative")
	}

	product := &models.Product{
		SKU:           input.SKU,
		Name:          input.Name,
		SellPrice:     input.SellPrice,
		SupplierPrice: input.SupplierPrice,
		Stock:         input.Stock,
		WeightKG:      input.WeightKG,
		SupplierID:    input.SupplierID,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "create product")
	}
	s.invalidateCatalog(ctx)
	dto := toProductDTO(created)
	return &dto, nil
}

// Restock increments stock for one SKU and optionally updates the sell price.
func (s *service) Restock(ctx context.Context, input RestockInput) (*ProductDTO, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	product, err := s.repo.Get(ctx, input.SKU)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "barang tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	product.Stock += input.Qty
	if input.SellPrice != nil {
		if *input.SellPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sell price must be non-negative")
		}
		product.SellPrice = *input.SellPrice
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	s.invalidateCatalog(ctx)
	dto := toProductDTO(saved)
	return &dto, nil
}

// Update patches product fields.
func (s *service) Update(ctx context.Context, sku string, input UpdateInput) (*ProductDTO, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}

	product, err := s.repo.Get(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "barang tidak ditemukan")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		product.Name = name
	}
	if input.SellPrice != nil {
		if *input.SellPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sell price must be non-negative")
		}
		product.SellPrice = *input.SellPrice
	}
	if input.SupplierPrice != nil {
		if *input.SupplierPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier price must be non-negative")
		}
		product.SupplierPrice = *input.SupplierPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
		}
		product.Stock = *input.Stock
	}
	if input.WeightKG != nil {
		if *input.WeightKG < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be non-negative")
		}
		product.WeightKG = *input.WeightKG
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	s.invalidateCatalog(ctx)
	dto := toProductDTO(saved)
	return &dto, nil
}

// InvalidateCatalog drops the cached unfiltered listing. Stock movements
// outside the warehouse API (settlement decrements, delivery restocks) call
// this so the cache never outlives a write.
func (s *service) InvalidateCatalog(ctx context.Context) {
	s.invalidateCatalog(ctx)
}

func (s *service) cachedCatalog(ctx context.Context) *CatalogDTO {
	raw, err := s.cache.Get(ctx, s.catalogKey())
	if err != nil || raw == "" {
		return nil
	}
	var dto CatalogDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return nil
	}
	return &dto
}

func (s *service) storeCatalog(ctx context.Context, dto *CatalogDTO) {
	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.catalogKey(), string(payload), s.cfg.CatalogCacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "catalog cache write failed")
	}
}

func (s *service) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.catalogKey()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "catalog cache invalidation failed")
	}
}

func (s *service) catalogKey() string {
	return s.cache.CacheKey("catalog", "all")
}

func toProductDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		SKU:           p.SKU,
		Name:          p.Name,
		SellPrice:     p.SellPrice,
		SupplierPrice: p.SupplierPrice,
		Stock:         p.Stock,
		WeightKG:      p.WeightKG,
		UpdatedAt:     p.UpdatedAt,
	}
}

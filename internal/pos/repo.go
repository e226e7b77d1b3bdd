package pos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/pkg/db/models"
	"github.com/rizkypratama/warungpos/pkg/enums"
)

// Repository exposes persistence operations for transactions and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a transaction repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new transaction row.
func (r *Repository) Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}

// Find loads a transaction with its items in insertion order.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// Save persists header fields of the provided transaction.
func (r *Repository) Save(ctx context.Context, trx *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}

// FindItem loads one cart line by transaction and SKU.
func (r *Repository) FindItem(ctx context.Context, transactionID uuid.UUID, sku string) (*models.TransactionItem, error) {
	var item models.TransactionItem
	err := r.db.WithContext(ctx).
		Where("transaction_id = ? AND product_sku = ?", transactionID, sku).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.TransactionItem) (*models.TransactionItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SaveItem persists the provided cart line.
func (r *Repository) SaveItem(ctx context.Context, item *models.TransactionItem) (*models.TransactionItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a cart line. Deleting an absent line is not an error.
func (r *Repository) DeleteItem(ctx context.Context, transactionID uuid.UUID, sku string) error {
	return r.db.WithContext(ctx).
		Where("transaction_id = ? AND product_sku = ?", transactionID, sku).
		Delete(&models.TransactionItem{}).Error
}

// List returns recent transactions newest first, optionally filtered by
// status and by a customer substring.
func (r *Repository) List(ctx context.Context, status *enums.TransactionStatus, q string, limit int) ([]models.Transaction, error) {
	scope := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC")
	if status != nil {
		scope = scope.Where("status = ?", *status)
	}
	if q != "" {
		scope = scope.Where("LOWER(customer) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if limit > 0 {
		scope = scope.Limit(limit)
	}
	var trxs []models.Transaction
	if err := scope.Find(&trxs).Error; err != nil {
		return nil, err
	}
	return trxs, nil
}

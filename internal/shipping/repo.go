package shipping

import (
	"context"

	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/pkg/db/models"
	"github.com/rizkypratama/warungpos/pkg/enums"
)

// Repository exposes persistence operations for inbound shipments.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shipment repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ShipmentRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new shipment with its initial event.
func (r *Repository) Create(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {
	if err := r.db.WithContext(ctx).Create(shipment).Error; err != nil {
		return nil, err
	}
	return shipment, nil
}

// FindByCode loads a shipment with its events newest first.
func (r *Repository) FindByCode(ctx context.Context, trackingCode string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("tracking_code = ?", trackingCode).
		First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// Active lists shipments that have not reached a terminal status, newest first.
func (r *Repository) Active(ctx context.Context) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.ShipmentStatus{
			enums.ShipmentStatusCreated,
			enums.ShipmentStatusOnDelivery,
		}).
		Order("created_at DESC").
		Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}

// Save persists header fields of the provided shipment.
func (r *Repository) Save(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error) {
	if err := r.db.WithContext(ctx).Omit("Events").Save(shipment).Error; err != nil {
		return nil, err
	}
	return shipment, nil
}

// AppendEvent records one status-history row.
func (r *Repository) AppendEvent(ctx context.Context, event *models.ShipmentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rizkypratama/warungpos/pkg/enums"
)

// Shipment is an inbound restock delivery announced by a supplier.
type Shipment struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	TrackingCode    string               `gorm:"column:tracking_code;uniqueIndex;not null"`
	ProductSKU      string               `gorm:"column:product_sku;not null"`
	ProductName     string               `gorm:"column:product_name;not null"`
	Quantity        int                  `gorm:"column:quantity;not null"`
	SupplierName    string               `gorm:"column:supplier_name;not null"`
	DistributorName string               `gorm:"column:distributor_name;not null"`
	Status          enums.ShipmentStatus `gorm:"column:status;not null"`
	TotalPayment    *int64               `gorm:"column:total_payment"`
	ETA             *time.Time           `gorm:"column:eta"`
	Events          []ShipmentEvent      `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shipment) TableName() string { return "shipments" }

// ShipmentEvent is one row of a shipment's status history.
type ShipmentEvent struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	ShipmentID uuid.UUID            `gorm:"column:shipment_id;type:uuid;not null;index"`
	Status     enums.ShipmentStatus `gorm:"column:status;not null"`
	Note       *string              `gorm:"column:note"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (ShipmentEvent) TableName() string { return "shipment_events" }

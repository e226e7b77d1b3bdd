package models

import "time"

// Product is a warehouse catalog row. The SKU is the natural key the whole
// system operates on; transactions never reference products by surrogate id.
type Product struct {
	SKU           string    `gorm:"column:sku;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	SupplierID    *int      `gorm:"column:supplier_id"`
	Stock         int       `gorm:"column:stock;not null;default:0"`
	SellPrice     int64     `gorm:"column:sell_price;not null;default:0"`
	SupplierPrice int64     `gorm:"column:supplier_price;not null;default:0"`
	WeightKG      float64   `gorm:"column:weight_kg;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	// UpdatedAt doubles as the last-restock timestamp surfaced in the catalog.
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rizkypratama/warungpos/pkg/enums"
)

// Transaction is a register checkout session. Amounts are whole rupiah.
type Transaction struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	Customer       string                  `gorm:"column:customer;not null"`
	PaymentMethod  enums.PaymentMethod     `gorm:"column:payment_method;not null"`
	Status         enums.TransactionStatus `gorm:"column:status;not null"`
	TotalAmount    int64                   `gorm:"column:total_amount;not null;default:0"`
	AmountTendered *int64                  `gorm:"column:amount_tendered"`
	ChangeGiven    *int64                  `gorm:"column:change_given"`
	Items          []TransactionItem       `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string { return "transactions" }

// TransactionItem is one cart line; SKU is unique within a transaction and
// quantity zero is expressed by deleting the row.
type TransactionItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;not null;index"`
	ProductSKU    string    `gorm:"column:product_sku;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	UnitPrice     int64     `gorm:"column:unit_price;not null"`
	LineTotal     int64     `gorm:"column:line_total;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TransactionItem) TableName() string { return "transaction_items" }

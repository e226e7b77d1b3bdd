package types

import "time"

// OpenTransactionView is returned when a transaction is opened.
type OpenTransactionView struct {
	TransactionID string `json:"transactionId"`
}

// TransactionHeaderView carries the transaction metadata.
type TransactionHeaderView struct {
	Customer      string    `json:"customer"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LineItemView is one cart row as the backend reports it.
type LineItemView struct {
	SKU       string `json:"sku"`
	Nama      string `json:"nama"`
	Harga     int64  `json:"harga"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"lineTotal"`
	Stock     int    `json:"stock"`
}

// CalcView carries the backend-computed totals. The client renders these
// verbatim and never recomputes them.
type CalcView struct {
	Subtotal int64 `json:"subtotal"`
	PPN      int64 `json:"ppn"`
	Total    int64 `json:"total"`
}

// TransactionView is the canonical snapshot of one transaction.
type TransactionView struct {
	ID     string                `json:"id"`
	Header TransactionHeaderView `json:"header"`
	Items  []LineItemView        `json:"items"`
	Calc   CalcView              `json:"calc"`
}

// SettlementView is the receipt returned by pay.
type SettlementView struct {
	Subtotal int64 `json:"subtotal"`
	PPN      int64 `json:"ppn"`
	Total    int64 `json:"total"`
	Change   int64 `json:"change"`
}

// StockShortage is one row of the pay-time stock walk.
type StockShortage struct {
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
	Need  int    `json:"need"`
}

// CatalogItemView is one product in a catalog listing.
type CatalogItemView struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	SellPrice int64  `json:"sellPrice"`
	Stock     int    `json:"stock"`
}

// CatalogView is the catalog listing payload.
type CatalogView struct {
	Items []CatalogItemView `json:"items"`
}

// WarehouseStatsView summarizes the inventory.
type WarehouseStatsView struct {
	TotalProducts int   `json:"totalProducts"`
	TotalStock    int64 `json:"totalStock"`
	LowStock      int   `json:"lowStock"`
}

// ShipmentEventView is one row of a shipment's status history.
type ShipmentEventView struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShipmentView is the tracking lookup payload.
type ShipmentView struct {
	TrackingCode    string              `json:"trackingCode"`
	ProductSKU      string              `json:"productSku"`
	ProductName     string              `json:"productName"`
	Quantity        int                 `json:"quantity"`
	SupplierName    string              `json:"supplierName"`
	DistributorName string              `json:"distributorName"`
	Status          string              `json:"status"`
	TotalPayment    *int64              `json:"totalPayment,omitempty"`
	ETA             *time.Time          `json:"eta,omitempty"`
	Events          []ShipmentEventView `json:"events,omitempty"`
}

package terminal

import (
	"context"

	"github.com/rizkypratama/warungpos/pkg/types"
)

// Backend is the slice of the POS API the terminal consumes. The backend owns
// every transaction, item, and shipment record; the terminal only ever holds
// an opaque transaction handle.
type Backend interface {
	OpenTransaction(ctx context.Context, customer, paymentMethod string) (string, error)
	GetTransaction(ctx context.Context, id string) (*types.TransactionView, error)
	AddItem(ctx context.Context, id, sku string, qty int, priceOverride *int64) error
	SetItemQuantity(ctx context.Context, id, sku string, qty int) error
	Pay(ctx context.Context, id, paymentMethod string, amountTendered int64) (*types.SettlementView, error)
	Void(ctx context.Context, id string) error
	Catalog(ctx context.Context, query string) (*types.CatalogView, error)
	ActiveShipments(ctx context.Context) ([]types.ShipmentView, error)
	ShipmentHistory(ctx context.Context, trackingCode string) (*types.ShipmentView, error)
	MarkDelivered(ctx context.Context, trackingCode string) (*types.ShipmentView, error)
}

package terminal

import (
	"context"
	"fmt"

	"github.com/rizkypratama/warungpos/pkg/money"
	"github.com/rizkypratama/warungpos/pkg/types"
)

// stubBackend simulates just enough of the POS API for the terminal core:
// transactions live in a map and totals are recomputed on every mutation.
// Call counters let tests assert which round-trips actually happened.
type stubBackend struct {
	openCalls int
	getCalls  int
	nextID    int

	views map[string]*types.TransactionView

	payErr  error
	payView *types.SettlementView
	voidErr error

	catalogView *types.CatalogView
	catalogErr  error

	shipments []types.ShipmentView
	shipment  *types.ShipmentView
}

func newStubBackend() *stubBackend {
	return &stubBackend{views: map[string]*types.TransactionView{}}
}

func (b *stubBackend) OpenTransaction(_ context.Context, customer, paymentMethod string) (string, error) {
	b.openCalls++
	b.nextID++
	id := fmt.Sprintf("trx-%d", b.nextID)
	if customer == "" {
		customer = "umum"
	}
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	b.views[id] = &types.TransactionView{
		ID: id,
		Header: types.TransactionHeaderView{
			Customer:      customer,
			PaymentMethod: paymentMethod,
			Status:        "OPEN",
		},
	}
	return id, nil
}

func (b *stubBackend) GetTransaction(_ context.Context, id string) (*types.TransactionView, error) {
	b.getCalls++
	view, ok := b.views[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", id)
	}
	copied := *view
	return &copied, nil
}

func (b *stubBackend) AddItem(_ context.Context, id, sku string, qty int, priceOverride *int64) error {
	view := b.views[id]
	price := int64(1000)
	if priceOverride != nil {
		price = *priceOverride
	}
	for i := range view.Items {
		if view.Items[i].SKU == sku {
			view.Items[i].Qty += qty
			view.Items[i].LineTotal = view.Items[i].Harga * int64(view.Items[i].Qty)
			b.recalc(view)
			return nil
		}
	}
	view.Items = append(view.Items, types.LineItemView{
		SKU:       sku,
		Nama:      sku,
		Harga:     price,
		Qty:       qty,
		LineTotal: price * int64(qty),
	})
	b.recalc(view)
	return nil
}

func (b *stubBackend) SetItemQuantity(_ context.Context, id, sku string, qty int) error {
	view := b.views[id]
	for i := range view.Items {
		if view.Items[i].SKU != sku {
			continue
		}
		if qty == 0 {
			view.Items = append(view.Items[:i], view.Items[i+1:]...)
		} else {
			view.Items[i].Qty = qty
			view.Items[i].LineTotal = view.Items[i].Harga * int64(qty)
		}
		b.recalc(view)
		return nil
	}
	return fmt.Errorf("item %s not found", sku)
}

func (b *stubBackend) Pay(_ context.Context, id, _ string, amountTendered int64) (*types.SettlementView, error) {
	if b.payErr != nil {
		return nil, b.payErr
	}
	if b.payView != nil {
		view := b.views[id]
		view.Header.Status = "PAID"
		return b.payView, nil
	}
	view := b.views[id]
	view.Header.Status = "PAID"
	return &types.SettlementView{
		Subtotal: view.Calc.Subtotal,
		PPN:      view.Calc.PPN,
		Total:    view.Calc.Total,
		Change:   money.Change(amountTendered, view.Calc.Total),
	}, nil
}

func (b *stubBackend) Void(_ context.Context, id string) error {
	if b.voidErr != nil {
		return b.voidErr
	}
	b.views[id].Header.Status = "VOID"
	return nil
}

func (b *stubBackend) Catalog(context.Context, string) (*types.CatalogView, error) {
	if b.catalogErr != nil {
		return nil, b.catalogErr
	}
	return b.catalogView, nil
}

func (b *stubBackend) ActiveShipments(context.Context) ([]types.ShipmentView, error) {
	return b.shipments, nil
}

func (b *stubBackend) ShipmentHistory(context.Context, string) (*types.ShipmentView, error) {
	return b.shipment, nil
}

func (b *stubBackend) MarkDelivered(context.Context, string) (*types.ShipmentView, error) {
	return b.shipment, nil
}

func (b *stubBackend) recalc(view *types.TransactionView) {
	var subtotal int64
	for _, item := range view.Items {
		subtotal += item.LineTotal
	}
	ppn := money.Tax(subtotal, 10)
	view.Calc = types.CalcView{Subtotal: subtotal, PPN: ppn, Total: subtotal + ppn}
}

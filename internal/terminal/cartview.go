package terminal

import (
	"context"

	"github.com/rizkypratama/warungpos/pkg/money"
	"github.com/rizkypratama/warungpos/pkg/types"
)

// Snapshot is a display-ready projection of the backend's transaction view.
// Totals come from the backend verbatim; the terminal never recomputes them.
type Snapshot struct {
	Items []types.LineItemView
	Calc  types.CalcView
}

// CartView re-derives the cart snapshot from the backend after every
// mutating call. It holds no state of its own.
type CartView struct {
	backend Backend
}

// NewCartView builds a cart view over the backend.
func NewCartView(backend Backend) *CartView {
	return &CartView{backend: backend}
}

// Refresh fetches the canonical snapshot for the handle. An absent handle
// yields the empty-cart snapshot with all totals zero, without a backend
// call; that is the defined "no active transaction" rendering, not an error.
func (c *CartView) Refresh(ctx context.Context, id string, ok bool) (Snapshot, error) {
	if !ok || id == "" {
		return Snapshot{}, nil
	}

	view, err := c.backend.GetTransaction(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Items: view.Items, Calc: view.Calc}, nil
}

// ChangePreview is the one total computed client-side: an optimistic preview
// of max(0, tendered - grand total), always a function of the latest two
// inputs.
func ChangePreview(tendered, grandTotal int64) int64 {
	return money.Change(tendered, grandTotal)
}

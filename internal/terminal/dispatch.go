package terminal

import (
	"context"

	"github.com/rizkypratama/warungpos/pkg/types"
)

// CommandKind enumerates the operator commands the dispatcher understands.
type CommandKind string

const (
	CmdEnsureOpen  CommandKind = "ensure-open"
	CmdAddItem     CommandKind = "add-item"
	CmdSetQty      CommandKind = "set-qty"
	CmdShowCart    CommandKind = "show-cart"
	CmdPreview     CommandKind = "preview"
	CmdPay         CommandKind = "pay"
	CmdVoid        CommandKind = "void"
	CmdCatalog     CommandKind = "catalog"
	CmdTrackActive CommandKind = "track-active"
	CmdTrackCode   CommandKind = "track-code"
	CmdDelivered   CommandKind = "delivered"
)

// Command is one operator action, decoupled from any presentation surface.
type Command struct {
	Kind          CommandKind
	Customer      string
	PaymentMethod string
	SKU           string
	Qty           int
	PriceOverride *int64
	Tendered      int64
	Query         string
	TrackingCode  string
}

// Outcome is the dispatcher's reply. Err carries the failure; Failure
// classifies it so callers render inline versus blocking without parsing
// error contents. Snapshot is refreshed after every mutation so effects are
// visible before the outcome is returned.
type Outcome struct {
	Snapshot Snapshot
	Receipt  Receipt
	Voided   bool
	// Previewed marks a change-preview result; ChangePreview is only
	// meaningful when it is set, since zero is a legitimate preview value.
	Previewed     bool
	ChangePreview int64
	Catalog       []types.CatalogItemView
	Shipments     []types.ShipmentView
	Shipment      *types.ShipmentView
	Failure       FailureKind
	Err           error
}

// Dispatcher wires the session, cart view, settlement controller, and
// catalog cache behind a single command interface.
type Dispatcher struct {
	session    *Session
	cart       *CartView
	settlement *Settlement
	catalog    *Catalog
	backend    Backend
}

// NewDispatcher builds the full terminal core over one backend.
func NewDispatcher(backend Backend) *Dispatcher {
	session := NewSession(backend)
	return &Dispatcher{
		session:    session,
		cart:       NewCartView(backend),
		settlement: NewSettlement(session, backend),
		catalog:    NewCatalog(backend),
		backend:    backend,
	}
}

// Session exposes the underlying session for direct reads.
func (d *Dispatcher) Session() *Session {
	return d.session
}

// Dispatch executes one command and returns its outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) Outcome {
	switch cmd.Kind {
	case CmdEnsureOpen:
		if _, err := d.session.EnsureOpen(ctx, cmd.Customer, cmd.PaymentMethod); err != nil {
			return d.failure(ctx, err)
		}
		return d.refreshed(ctx, Outcome{})

	case CmdAddItem:
		if err := d.session.AddItem(ctx, cmd.SKU, cmd.Qty, cmd.PriceOverride); err != nil {
			return d.failure(ctx, err)
		}
		return d.refreshed(ctx, Outcome{})

	case CmdSetQty:
		if err := d.session.SetItemQuantity(ctx, cmd.SKU, cmd.Qty); err != nil {
			return d.failure(ctx, err)
		}
		return d.refreshed(ctx, Outcome{})

	case CmdShowCart:
		return d.refreshed(ctx, Outcome{})

	case CmdPreview:
		out := d.refreshed(ctx, Outcome{})
		if out.Err == nil {
			out.Previewed = true
			out.ChangePreview = ChangePreview(cmd.Tendered, out.Snapshot.Calc.Total)
		}
		return out

	case CmdPay:
		receipt, err := d.settlement.Pay(ctx, cmd.PaymentMethod, cmd.Tendered)
		if err != nil {
			return d.failure(ctx, err)
		}
		return d.refreshed(ctx, Outcome{Receipt: receipt})

	case CmdVoid:
		voided, err := d.settlement.Void(ctx)
		if err != nil {
			return d.failure(ctx, err)
		}
		return d.refreshed(ctx, Outcome{Voided: voided})

	case CmdCatalog:
		items, err := d.catalog.Load(ctx, cmd.Query)
		if err != nil {
			return d.failure(ctx, err)
		}
		return Outcome{Catalog: items}

	case CmdTrackActive:
		shipments, err := d.backend.ActiveShipments(ctx)
		if err != nil {
			return d.failure(ctx, err)
		}
		return Outcome{Shipments: shipments}

	case CmdTrackCode:
		shipment, err := d.backend.ShipmentHistory(ctx, cmd.TrackingCode)
		if err != nil {
			return d.failure(ctx, err)
		}
		return Outcome{Shipment: shipment}

	case CmdDelivered:
		shipment, err := d.backend.MarkDelivered(ctx, cmd.TrackingCode)
		if err != nil {
			return d.failure(ctx, err)
		}
		return Outcome{Shipment: shipment}
	}

	return Outcome{Err: errUnknownCommand(cmd.Kind), Failure: FailureBlocking}
}

// refreshed attaches the current snapshot to the outcome. A mutation's
// effects are only visible once this refresh completes.
func (d *Dispatcher) refreshed(ctx context.Context, out Outcome) Outcome {
	id, ok := d.session.Current()
	snapshot, err := d.cart.Refresh(ctx, id, ok)
	if err != nil {
		return d.failure(ctx, err)
	}
	out.Snapshot = snapshot
	return out
}

// failure classifies the error and, for a stock rejection, refreshes the
// snapshot so the warning can render next to the still-open cart. A failed
// refresh leaves the snapshot zero; the original error wins.
func (d *Dispatcher) failure(ctx context.Context, err error) Outcome {
	out := Outcome{Err: err, Failure: Classify(err)}
	if out.Failure == FailureStock {
		if id, ok := d.session.Current(); ok {
			if snapshot, refreshErr := d.cart.Refresh(ctx, id, ok); refreshErr == nil {
				out.Snapshot = snapshot
			}
		}
	}
	return out
}

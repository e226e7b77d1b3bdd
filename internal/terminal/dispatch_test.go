package terminal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/types"
)

func TestDispatchAddItemRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	d := NewDispatcher(backend)

	out := d.Dispatch(ctx, Command{Kind: CmdAddItem, SKU: "BRG-001", Qty: 2})
	require.NoError(t, out.Err)

	require.Len(t, out.Snapshot.Items, 1)
	assert.Equal(t, int64(2200), out.Snapshot.Calc.Total)
	assert.Equal(t, FailureNone, out.Failure)
}

func TestDispatchPreviewComputesChange(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	d := NewDispatcher(backend)

	out := d.Dispatch(ctx, Command{Kind: CmdAddItem, SKU: "BRG-001", Qty: 2})
	require.NoError(t, out.Err)

	out = d.Dispatch(ctx, Command{Kind: CmdPreview, Tendered: 5000})
	require.NoError(t, out.Err)
	assert.True(t, out.Previewed)
	assert.Equal(t, int64(2800), out.ChangePreview)

	// tendered below the total previews zero change, still marked as a preview
	out = d.Dispatch(ctx, Command{Kind: CmdPreview, Tendered: 2000})
	require.NoError(t, out.Err)
	assert.True(t, out.Previewed)
	assert.Equal(t, int64(0), out.ChangePreview)
}

func TestDispatchNonPreviewOutcomesNotPreviewed(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(newStubBackend())

	out := d.Dispatch(ctx, Command{Kind: CmdAddItem, SKU: "BRG-001", Qty: 1})
	require.NoError(t, out.Err)
	assert.False(t, out.Previewed)
}

func TestDispatchPaySuccessEmptiesSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	d := NewDispatcher(backend)

	out := d.Dispatch(ctx, Command{Kind: CmdAddItem, SKU: "BRG-001", Qty: 2})
	require.NoError(t, out.Err)

	out = d.Dispatch(ctx, Command{Kind: CmdPay, PaymentMethod: "cash", Tendered: 5000})
	require.NoError(t, out.Err)

	assert.True(t, out.Receipt.Settled)
	assert.Equal(t, int64(2200), out.Receipt.Total)
	assert.Equal(t, int64(2800), out.Receipt.Change)
	assert.Empty(t, out.Snapshot.Items)

	_, ok := d.Session().Current()
	assert.False(t, ok)
}

func TestDispatchPayStockFailureStaysInline(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	d := NewDispatcher(backend)

	out := d.Dispatch(ctx, Command{Kind: CmdAddItem, SKU: "BRG-001", Qty: 99})
	require.NoError(t, out.Err)

	backend.payErr = pkgerrors.New(pkgerrors.CodeInsufficientStock, "stok_kurang").
		WithDetails([]types.StockShortage{{SKU: "BRG-001", Stock: 3, Need: 99}})

	out = d.Dispatch(ctx, Command{Kind: CmdPay, PaymentMethod: "cash", Tendered: 500000})
	require.Error(t, out.Err)

	assert.Equal(t, FailureStock, out.Failure)
	_, ok := d.Session().Current()
	assert.True(t, ok, "transaction stays open for an inline retry")

	// the outcome carries the still-open cart so the shortage renders next
	// to it instead of over an empty keranjang
	require.Len(t, out.Snapshot.Items, 1)
	assert.Equal(t, "BRG-001", out.Snapshot.Items[0].SKU)
	assert.Equal(t, 99, out.Snapshot.Items[0].Qty)
}

func TestDispatchVoid(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	d := NewDispatcher(backend)

	out := d.Dispatch(ctx, Command{Kind: CmdAddItem, SKU: "BRG-001", Qty: 1})
	require.NoError(t, out.Err)

	out = d.Dispatch(ctx, Command{Kind: CmdVoid})
	require.NoError(t, out.Err)

	assert.True(t, out.Voided)
	assert.Empty(t, out.Snapshot.Items)
}

func TestDispatchCatalog(t *testing.T) {
	backend := newStubBackend()
	backend.catalogView = catalogFixture()
	d := NewDispatcher(backend)

	out := d.Dispatch(context.Background(), Command{Kind: CmdCatalog})
	require.NoError(t, out.Err)
	assert.Len(t, out.Catalog, 3)
}

func TestDispatchTracking(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	backend.shipments = []types.ShipmentView{{TrackingCode: "RESI-001", Status: "ON_DELIVERY"}}
	backend.shipment = &types.ShipmentView{TrackingCode: "RESI-001", Status: "ON_DELIVERY"}
	d := NewDispatcher(backend)

	out := d.Dispatch(ctx, Command{Kind: CmdTrackActive})
	require.NoError(t, out.Err)
	require.Len(t, out.Shipments, 1)

	out = d.Dispatch(ctx, Command{Kind: CmdTrackCode, TrackingCode: "RESI-001"})
	require.NoError(t, out.Err)
	require.NotNil(t, out.Shipment)
	assert.Equal(t, "RESI-001", out.Shipment.TrackingCode)
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := NewDispatcher(newStubBackend())

	out := d.Dispatch(context.Background(), Command{Kind: "reboot"})
	require.Error(t, out.Err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(out.Err))
	assert.Equal(t, FailureBlocking, out.Failure)
}

package shipping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rizkypratama/warungpos/internal/warehouse"
	"github.com/rizkypratama/warungpos/pkg/db/models"
	"github.com/rizkypratama/warungpos/pkg/enums"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupShippingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  sku TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  supplier_id INTEGER,
  stock INTEGER NOT NULL DEFAULT 0,
  sell_price INTEGER NOT NULL DEFAULT 0,
  supplier_price INTEGER NOT NULL DEFAULT 0,
  weight_kg REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	shipments := `
CREATE TABLE IF NOT EXISTS shipments (
  id TEXT PRIMARY KEY,
  tracking_code TEXT NOT NULL UNIQUE,
  product_sku TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  supplier_name TEXT NOT NULL,
  distributor_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'CREATED',
  total_payment INTEGER,
  eta DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	shipmentEvents := `
CREATE TABLE IF NOT EXISTS shipment_events (
  id TEXT PRIMARY KEY,
  shipment_id TEXT NOT NULL,
  status TEXT NOT NULL,
  note TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(shipments).Error)
	require.NoError(t, db.Exec(shipmentEvents).Error)
	return db
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCatalog(context.Context) {
	c.calls++
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	return newTestServiceWithCatalog(t, db, nil)
}

func newTestServiceWithCatalog(t *testing.T, db *gorm.DB, catalog CatalogInvalidator) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), warehouse.NewRepository(db), testTxRunner{db: db}, catalog, nil)
	require.NoError(t, err)
	return svc
}

func receiveTestShipment(t *testing.T, svc Service, code, sku string, qty int) {
	t.Helper()

	_, err := svc.Receive(context.Background(), ReceiveInput{
		TrackingCode:    code,
		ProductSKU:      sku,
		ProductName:     "Beras Premium",
		Quantity:        qty,
		SupplierName:    "PT Sumber Pangan",
		DistributorName: "JNE Kargo",
	})
	require.NoError(t, err)
}

func TestReceiveRegistersCreatedShipment(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)

	view, err := svc.Track(ctx, "RESI-001")
	require.NoError(t, err)
	assert.Equal(t, string(enums.ShipmentStatusCreated), view.Status)
	require.Len(t, view.Events, 1)
	assert.Equal(t, string(enums.ShipmentStatusCreated), view.Events[0].Status)
}

func TestReceiveRejectsDuplicateTrackingCode(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)

	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)

	_, err := svc.Receive(context.Background(), ReceiveInput{
		TrackingCode: "RESI-001",
		ProductSKU:   "BRG001",
		Quantity:     5,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestTrackUnknownCode(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Track(context.Background(), "RESI-TIDAK-ADA")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdateStatusAppendsHistoryNewestFirst(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)

	view, err := svc.UpdateStatus(ctx, "RESI-001", StatusInput{Status: "on_delivery", Note: "keluar gudang"})
	require.NoError(t, err)
	assert.Equal(t, string(enums.ShipmentStatusOnDelivery), view.Status)
	require.Len(t, view.Events, 2)
	assert.Equal(t, string(enums.ShipmentStatusOnDelivery), view.Events[0].Status)
	assert.Equal(t, "keluar gudang", view.Events[0].Note)
}

func TestMarkDeliveredRestocksExistingProduct(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{SKU: "BRG001", Name: "Beras Premium", Stock: 10}).Error)
	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)

	view, err := svc.MarkDelivered(ctx, "RESI-001")
	require.NoError(t, err)
	assert.Equal(t, string(enums.ShipmentStatusDelivered), view.Status)

	var product models.Product
	require.NoError(t, db.Where("sku = ?", "BRG001").First(&product).Error)
	assert.Equal(t, 50, product.Stock)
}

func TestMarkDeliveredCreatesUnknownProduct(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	receiveTestShipment(t, svc, "RESI-002", "BRG999", 15)

	_, err := svc.MarkDelivered(ctx, "RESI-002")
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.Where("sku = ?", "BRG999").First(&product).Error)
	assert.Equal(t, 15, product.Stock)
	assert.Equal(t, "Beras Premium", product.Name)
}

func TestMarkDeliveredInvalidatesCatalogCache(t *testing.T) {
	db := setupShippingTestDB(t)
	catalog := &countingInvalidator{}
	svc := newTestServiceWithCatalog(t, db, catalog)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{SKU: "BRG001", Name: "Beras Premium", Stock: 10}).Error)
	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)

	// non-terminal status updates move no stock
	_, err := svc.UpdateStatus(ctx, "RESI-001", StatusInput{Status: "on_delivery"})
	require.NoError(t, err)
	assert.Zero(t, catalog.calls)

	_, err = svc.MarkDelivered(ctx, "RESI-001")
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.calls)
}

func TestMarkDeliveredTwiceDoesNotDoubleCount(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{SKU: "BRG001", Name: "Beras Premium", Stock: 10}).Error)
	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)

	_, err := svc.MarkDelivered(ctx, "RESI-001")
	require.NoError(t, err)

	_, err = svc.MarkDelivered(ctx, "RESI-001")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))

	var product models.Product
	require.NoError(t, db.Where("sku = ?", "BRG001").First(&product).Error)
	assert.Equal(t, 50, product.Stock)
}

func TestActiveExcludesDeliveredShipments(t *testing.T) {
	db := setupShippingTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	receiveTestShipment(t, svc, "RESI-001", "BRG001", 40)
	receiveTestShipment(t, svc, "RESI-002", "BRG002", 5)

	_, err := svc.MarkDelivered(ctx, "RESI-002")
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "RESI-001", active[0].TrackingCode)
}

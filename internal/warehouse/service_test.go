package warehouse

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkypratama/warungpos/pkg/config"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
)

type fakeCache struct {
	data map[string]string
	sets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		f.hits++
		return v, nil
	}
	return "", fmt.Errorf("cache miss")
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeCache) CacheKey(parts ...string) string {
	return "test:cache:" + strings.Join(parts, ":")
}

func warehouseConfig() config.WarehouseConfig {
	return config.WarehouseConfig{
		LowStockThreshold: 10,
		CatalogCacheTTL:   30 * time.Second,
	}
}

func TestCatalogServesUnfilteredListingFromCache(t *testing.T) {
	db := setupWarehouseTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, warehouseConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, "BRG001", "Beras Premium", 50, 15000)

	first, err := svc.Catalog(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Catalog(ctx, "")
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets, "cached read should not re-store")
}

func TestCatalogFilteredQueriesBypassCache(t *testing.T) {
	db := setupWarehouseTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, warehouseConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, "BRG001", "Beras Premium", 50, 15000)
	seedProduct(t, db, "BRG002", "Minyak Goreng", 20, 28000)

	filtered, err := svc.Catalog(ctx, "beras")
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "BRG001", filtered.Items[0].SKU)
	assert.Zero(t, cache.sets)
}

func TestRestockBumpsStockAndInvalidatesCache(t *testing.T) {
	db := setupWarehouseTestDB(t)
	cache := newFakeCache()
	svc, err := NewService(NewRepository(db), cache, warehouseConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, "BRG001", "Beras Premium", 10, 15000)

	_, err = svc.Catalog(ctx, "")
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	newPrice := int64(16000)
	updated, err := svc.Restock(ctx, RestockInput{SKU: "BRG001", Qty: 25, SellPrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 35, updated.Stock)
	assert.Equal(t, int64(16000), updated.SellPrice)
	assert.Empty(t, cache.data, "writes must drop the cached listing")
}

func TestRestockRejectsNonPositiveQty(t *testing.T) {
	db := setupWarehouseTestDB(t)
	svc, err := NewService(NewRepository(db), nil, warehouseConfig(), nil)
	require.NoError(t, err)

	_, err = svc.Restock(context.Background(), RestockInput{SKU: "BRG001", Qty: 0})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestRestockUnknownSKU(t *testing.T) {
	db := setupWarehouseTestDB(t)
	svc, err := NewService(NewRepository(db), nil, warehouseConfig(), nil)
	require.NoError(t, err)

	_, err = svc.Restock(context.Background(), RestockInput{SKU: "TIDAK-ADA", Qty: 5})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	db := setupWarehouseTestDB(t)
	svc, err := NewService(NewRepository(db), nil, warehouseConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, "BRG001", "Beras Premium", 10, 15000)

	price := int64(15500)
	updated, err := svc.Update(ctx, "BRG001", UpdateInput{SellPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(15500), updated.SellPrice)
	assert.Equal(t, "Beras Premium", updated.Name)
	assert.Equal(t, 10, updated.Stock)
}

func TestUpdateRejectsNegativePrice(t *testing.T) {
	db := setupWarehouseTestDB(t)
	svc, err := NewService(NewRepository(db), nil, warehouseConfig(), nil)
	require.NoError(t, err)

	seedProduct(t, db, "BRG001", "Beras Premium", 10, 15000)

	bad := int64(-1)
	_, err = svc.Update(context.Background(), "BRG001", UpdateInput{SellPrice: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestStatsUsesConfiguredThreshold(t *testing.T) {
	db := setupWarehouseTestDB(t)
	svc, err := NewService(NewRepository(db), nil, warehouseConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, "BRG001", "Beras Premium", 50, 15000)
	seedProduct(t, db, "BRG002", "Minyak Goreng", 3, 28000)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, int64(53), stats.TotalStock)
	assert.Equal(t, 1, stats.LowStock)
}

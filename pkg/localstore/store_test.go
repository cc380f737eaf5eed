package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(config.LocalStoreConfig{Path: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cashier := models.Cashier{ID: uuid.New(), Name: "Sami"}
	require.NoError(t, store.SaveSnapshot(ctx, KeyCashier, cashier))

	var loaded models.Cashier
	require.NoError(t, store.LoadSnapshot(ctx, KeyCashier, &loaded))
	assert.Equal(t, cashier.ID, loaded.ID)
	assert.Equal(t, "Sami", loaded.Name)

	// Saving again overwrites in place.
	cashier.Name = "Samia"
	require.NoError(t, store.SaveSnapshot(ctx, KeyCashier, cashier))
	require.NoError(t, store.LoadSnapshot(ctx, KeyCashier, &loaded))
	assert.Equal(t, "Samia", loaded.Name)

	require.NoError(t, store.DeleteSnapshot(ctx, KeyCashier))
	err := store.LoadSnapshot(ctx, KeyCashier, &loaded)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSnapshotMissingKeyIsNoError(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.DeleteSnapshot(context.Background(), "never-saved"))
}

func TestCacheProductsUpsertAndFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	drinks := uuid.New()
	food := uuid.New()
	espresso := models.Product{ID: uuid.New(), Title: "Espresso", BasePrice: money.FromFloat(2.50), CategoryID: &drinks, Stock: 10}
	latte := models.Product{ID: uuid.New(), Title: "Latte", BasePrice: money.FromFloat(3.80), CategoryID: &drinks, Stock: 5}
	panini := models.Product{ID: uuid.New(), Title: "Panini", BasePrice: money.FromFloat(6.00), CategoryID: &food, Stock: 3}

	require.NoError(t, store.CacheProducts(ctx, []models.Product{espresso, latte, panini}))

	all, err := store.CachedProducts(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyDrinks, err := store.CachedProducts(ctx, drinks.String(), "", 0)
	require.NoError(t, err)
	assert.Len(t, onlyDrinks, 2)

	searched, err := store.CachedProducts(ctx, "", "espr", 0)
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Espresso", searched[0].Title)
	assert.True(t, searched[0].BasePrice.Equal(money.FromFloat(2.50)))

	// Re-caching the same product updates the stored row.
	espresso.Stock = 0
	require.NoError(t, store.CacheProducts(ctx, []models.Product{espresso}))
	refreshed, err := store.CachedProducts(ctx, "", "espr", 0)
	require.NoError(t, err)
	require.Len(t, refreshed, 1)
	assert.Equal(t, 0, refreshed[0].Stock)
}

func TestCachedProductsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	products := []models.Product{
		{ID: uuid.New(), Title: "Americano", BasePrice: money.FromFloat(2.00)},
		{ID: uuid.New(), Title: "Cappuccino", BasePrice: money.FromFloat(3.20)},
		{ID: uuid.New(), Title: "Macchiato", BasePrice: money.FromFloat(2.80)},
	}
	require.NoError(t, store.CacheProducts(ctx, products))

	page, err := store.CachedProducts(ctx, "", "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Americano", page[0].Title)
	assert.Equal(t, "Cappuccino", page[1].Title)
}

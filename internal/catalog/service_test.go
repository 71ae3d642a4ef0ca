package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bar/internal/catalog"
	"github.com/noah-isme/backend-bar/internal/common"
)

var (
	sizeID  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaa1")
	rateID  = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbb1")
	bevID   = uuid.MustParse("cccccccc-cccc-cccc-cccc-ccccccccccc1")
	otherID = uuid.MustParse("dddddddd-dddd-dddd-dddd-ddddddddddd1")
)

func mustDec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

// fakeStore serves fixed entities and counts reads per method so tests can
// tell cache hits from store round trips.
type fakeStore struct {
	mu       sync.Mutex
	calls    map[string]int
	listErr  error
	cupSize  catalog.CupSize
	taxRate  catalog.TaxRate
	beverage catalog.CustomBeverage
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	return &fakeStore{
		calls:    map[string]int{},
		cupSize:  catalog.CupSize{ID: sizeID, Name: "Medio", BasePrice: mustDec(t, "3.50"), Multiplier: mustDec(t, "1.00")},
		taxRate:  catalog.TaxRate{ID: rateID, Name: "IVA ordinaria", Percentage: mustDec(t, "22.00")},
		beverage: catalog.CustomBeverage{ID: bevID, PersonalizationID: otherID, CupSizeID: sizeID},
	}
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) CupSize(_ context.Context, id uuid.UUID) (catalog.CupSize, error) {
	f.record("cupsize")
	if id != f.cupSize.ID {
		return catalog.CupSize{}, common.NotFound("cup size not found", nil)
	}
	return f.cupSize, nil
}

func (f *fakeStore) Ingredient(_ context.Context, id uuid.UUID) (catalog.Ingredient, error) {
	f.record("ingredient")
	return catalog.Ingredient{}, common.NotFound("ingredient not found", nil)
}

func (f *fakeStore) Personalization(_ context.Context, id uuid.UUID) (catalog.Personalization, error) {
	f.record("personalization")
	return catalog.Personalization{}, common.NotFound("personalization not found", nil)
}

func (f *fakeStore) CustomBeverage(_ context.Context, id uuid.UUID) (catalog.CustomBeverage, error) {
	f.record("beverage")
	if id != f.beverage.ID {
		return catalog.CustomBeverage{}, common.NotFound("custom beverage not found", nil)
	}
	return f.beverage, nil
}

func (f *fakeStore) FixedPriceItem(_ context.Context, id uuid.UUID, kind catalog.FixedItemKind) (catalog.FixedPriceItem, error) {
	f.record("fixeditem")
	return catalog.FixedPriceItem{}, common.NotFound("menu item not found", nil)
}

func (f *fakeStore) TaxRate(_ context.Context, id uuid.UUID) (catalog.TaxRate, error) {
	f.record("taxrate")
	if id != f.taxRate.ID {
		return catalog.TaxRate{}, common.NotFound("tax rate not found", nil)
	}
	return f.taxRate, nil
}

func (f *fakeStore) ListCupSizes(context.Context) ([]catalog.CupSize, error) {
	f.record("listcupsizes")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []catalog.CupSize{f.cupSize}, nil
}

func (f *fakeStore) ListTaxRates(context.Context) ([]catalog.TaxRate, error) {
	f.record("listtaxrates")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []catalog.TaxRate{f.taxRate}, nil
}

func newCatalogWithRedis(t *testing.T) (*catalog.Catalog, *fakeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newFakeStore(t)
	cat, err := catalog.New(catalog.Config{
		Store: store,
		Cache: catalog.NewCache(client, 5*time.Minute),
	})
	require.NoError(t, err)
	return cat, store, mr
}

func TestCatalogReadThrough(t *testing.T) {
	cat, store, _ := newCatalogWithRedis(t)
	ctx := context.Background()

	t.Run("miss populates, second read hits the cache", func(t *testing.T) {
		cs, err := cat.CupSize(ctx, sizeID)
		require.NoError(t, err)
		require.Equal(t, "Medio", cs.Name)
		require.Equal(t, 1, store.count("cupsize"))

		cs, err = cat.CupSize(ctx, sizeID)
		require.NoError(t, err)
		require.True(t, cs.BasePrice.Equal(mustDec(t, "3.50")))
		require.Equal(t, 1, store.count("cupsize"), "second read must not touch the store")
	})

	t.Run("tax rates are cached the same way", func(t *testing.T) {
		_, err := cat.TaxRate(ctx, rateID)
		require.NoError(t, err)
		_, err = cat.TaxRate(ctx, rateID)
		require.NoError(t, err)
		require.Equal(t, 1, store.count("taxrate"))
	})

	t.Run("store miss propagates and caches nothing", func(t *testing.T) {
		_, err := cat.CupSize(ctx, otherID)
		require.Error(t, err)
		require.True(t, common.IsNotFound(err))

		_, err = cat.CupSize(ctx, otherID)
		require.Error(t, err)
		require.Equal(t, 3, store.count("cupsize"), "misses always reach the store")
	})

	t.Run("other entities bypass the cache", func(t *testing.T) {
		_, err := cat.CustomBeverage(ctx, bevID)
		require.NoError(t, err)
		_, err = cat.CustomBeverage(ctx, bevID)
		require.NoError(t, err)
		require.Equal(t, 2, store.count("beverage"))
	})
}

func TestCatalogPreload(t *testing.T) {
	ctx := context.Background()

	t.Run("warms hot keys so lookups skip the store", func(t *testing.T) {
		cat, store, _ := newCatalogWithRedis(t)
		require.NoError(t, cat.Preload(ctx))

		_, err := cat.CupSize(ctx, sizeID)
		require.NoError(t, err)
		_, err = cat.TaxRate(ctx, rateID)
		require.NoError(t, err)
		require.Equal(t, 0, store.count("cupsize"))
		require.Equal(t, 0, store.count("taxrate"))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		cat, store, _ := newCatalogWithRedis(t)
		store.listErr = errors.New("db down")
		require.Error(t, cat.Preload(ctx))
	})
}

func TestCatalogClear(t *testing.T) {
	cat, store, mr := newCatalogWithRedis(t)
	ctx := context.Background()

	t.Run("clearing an empty cache succeeds", func(t *testing.T) {
		require.NoError(t, cat.Clear(ctx))
	})

	t.Run("clear forces the next read back to the store", func(t *testing.T) {
		_, err := cat.CupSize(ctx, sizeID)
		require.NoError(t, err)
		require.True(t, mr.Exists("menu:cupsize:"+sizeID.String()))

		require.NoError(t, cat.Clear(ctx))
		require.False(t, mr.Exists("menu:cupsize:"+sizeID.String()))

		_, err = cat.CupSize(ctx, sizeID)
		require.NoError(t, err)
		require.Equal(t, 2, store.count("cupsize"))
	})
}

func TestCatalogWithoutCache(t *testing.T) {
	store := newFakeStore(t)
	cat, err := catalog.New(catalog.Config{Store: store})
	require.NoError(t, err)
	ctx := context.Background()

	cs, err := cat.CupSize(ctx, sizeID)
	require.NoError(t, err)
	require.Equal(t, "Medio", cs.Name)
	require.NoError(t, cat.Preload(ctx))
	require.NoError(t, cat.Clear(ctx))
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-bar/internal/obs"
)

// keyPrefix scopes every menu lookup key so Clear can evict them in one pass.
const keyPrefix = "menu:"

type storeReader interface {
	CupSize(ctx context.Context, id uuid.UUID) (CupSize, error)
	Ingredient(ctx context.Context, id uuid.UUID) (Ingredient, error)
	Personalization(ctx context.Context, id uuid.UUID) (Personalization, error)
	CustomBeverage(ctx context.Context, id uuid.UUID) (CustomBeverage, error)
	FixedPriceItem(ctx context.Context, id uuid.UUID, kind FixedItemKind) (FixedPriceItem, error)
	TaxRate(ctx context.Context, id uuid.UUID) (TaxRate, error)
	ListCupSizes(ctx context.Context) ([]CupSize, error)
	ListTaxRates(ctx context.Context) ([]TaxRate, error)
}

// Catalog is the read-through view the pricing engines consume. Cup sizes
// and tax rates, the hot keys of every calculation, go through the cache;
// the remaining entities read straight from the store so each calculation
// prices against the current catalog snapshot.
type Catalog struct {
	store storeReader
	cache *Cache
}

// Config groups Catalog dependencies.
type Config struct {
	Store storeReader
	Cache *Cache
}

// New constructs a Catalog.
func New(cfg Config) (*Catalog, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	return &Catalog{store: cfg.Store, cache: cfg.Cache}, nil
}

// CupSize resolves a cup size, serving from cache when possible. A stale or
// unreachable cache degrades to a direct store read; populate-on-miss is
// best effort and tolerates concurrent duplicates.
func (c *Catalog) CupSize(ctx context.Context, id uuid.UUID) (CupSize, error) {
	key := keyCupSize(id)
	var cached CupSize
	if ok, err := c.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		obs.IncCacheLookup("cupsize", "hit")
		return cached, nil
	}
	obs.IncCacheLookup("cupsize", "miss")
	cs, err := c.store.CupSize(ctx, id)
	if err != nil {
		return CupSize{}, err
	}
	_ = c.cache.SetJSON(ctx, key, cs)
	return cs, nil
}

// TaxRate resolves a tax rate, serving from cache when possible.
func (c *Catalog) TaxRate(ctx context.Context, id uuid.UUID) (TaxRate, error) {
	key := keyTaxRate(id)
	var cached TaxRate
	if ok, err := c.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		obs.IncCacheLookup("taxrate", "hit")
		return cached, nil
	}
	obs.IncCacheLookup("taxrate", "miss")
	tr, err := c.store.TaxRate(ctx, id)
	if err != nil {
		return TaxRate{}, err
	}
	_ = c.cache.SetJSON(ctx, key, tr)
	return tr, nil
}

// Ingredient reads an ingredient from the store.
func (c *Catalog) Ingredient(ctx context.Context, id uuid.UUID) (Ingredient, error) {
	return c.store.Ingredient(ctx, id)
}

// Personalization reads a personalization from the store.
func (c *Catalog) Personalization(ctx context.Context, id uuid.UUID) (Personalization, error) {
	return c.store.Personalization(ctx, id)
}

// CustomBeverage reads a custom beverage instance from the store.
func (c *Catalog) CustomBeverage(ctx context.Context, id uuid.UUID) (CustomBeverage, error) {
	return c.store.CustomBeverage(ctx, id)
}

// FixedPriceItem reads a standard beverage or dessert from the store.
func (c *Catalog) FixedPriceItem(ctx context.Context, id uuid.UUID, kind FixedItemKind) (FixedPriceItem, error) {
	return c.store.FixedPriceItem(ctx, id, kind)
}

// CupSizes lists all cup sizes straight from the store.
func (c *Catalog) CupSizes(ctx context.Context) ([]CupSize, error) {
	return c.store.ListCupSizes(ctx)
}

// TaxRates lists all tax rates straight from the store.
func (c *Catalog) TaxRates(ctx context.Context) ([]TaxRate, error) {
	return c.store.ListTaxRates(ctx)
}

// Preload warms the lookup cache with every cup size and tax rate. Store
// read failures propagate; cache writes are best effort.
func (c *Catalog) Preload(ctx context.Context) error {
	sizes, err := c.store.ListCupSizes(ctx)
	if err != nil {
		obs.IncCachePreload("error")
		return fmt.Errorf("preload cup sizes: %w", err)
	}
	for _, cs := range sizes {
		_ = c.cache.SetJSON(ctx, keyCupSize(cs.ID), cs)
	}
	rates, err := c.store.ListTaxRates(ctx)
	if err != nil {
		obs.IncCachePreload("error")
		return fmt.Errorf("preload tax rates: %w", err)
	}
	for _, tr := range rates {
		_ = c.cache.SetJSON(ctx, keyTaxRate(tr.ID), tr)
	}
	obs.IncCachePreload("ok")
	return nil
}

// Clear evicts the whole menu lookup keyspace. Clearing an empty cache is
// not an error, and readers that already captured a hit are unaffected.
func (c *Catalog) Clear(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, keyPrefix)
}

func keyCupSize(id uuid.UUID) string { return keyPrefix + "cupsize:" + id.String() }

func keyTaxRate(id uuid.UUID) string { return keyPrefix + "taxrate:" + id.String() }

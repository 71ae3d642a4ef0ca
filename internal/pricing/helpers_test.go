package pricing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bar/internal/catalog"
	"github.com/noah-isme/backend-bar/internal/common"
)

// Well-known fixture ids so tests can reference entities directly.
var (
	sizeMedioID      = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sizeGrandeID     = uuid.MustParse("11111111-1111-1111-1111-111111111112")
	ingCioccolatoID  = uuid.MustParse("22222222-2222-2222-2222-222222222221")
	ingPannaID       = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	persMochaID      = uuid.MustParse("33333333-3333-3333-3333-333333333331")
	persVuotaID      = uuid.MustParse("33333333-3333-3333-3333-333333333332")
	persDoppiaID     = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	bevMochaMedioID  = uuid.MustParse("44444444-4444-4444-4444-444444444441")
	bevMochaGrandeID = uuid.MustParse("44444444-4444-4444-4444-444444444442")
	bevVuotaID       = uuid.MustParse("44444444-4444-4444-4444-444444444443")
	bevDoppiaID      = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	bevOrphanID      = uuid.MustParse("44444444-4444-4444-4444-444444444445")
	colaID           = uuid.MustParse("55555555-5555-5555-5555-555555555551")
	tiramisuID       = uuid.MustParse("55555555-5555-5555-5555-555555555552")
	rate22ID         = uuid.MustParse("66666666-6666-6666-6666-666666666661")
	rate10ID         = uuid.MustParse("66666666-6666-6666-6666-666666666662")
	rate0ID          = uuid.MustParse("66666666-6666-6666-6666-666666666663")
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

// fakeCatalog implements the catalog read interface over in-memory maps and
// counts point lookups per entity for idempotence assertions.
type fakeCatalog struct {
	mu               sync.Mutex
	cupSizes         map[uuid.UUID]catalog.CupSize
	ingredients      map[uuid.UUID]catalog.Ingredient
	personalizations map[uuid.UUID]catalog.Personalization
	beverages        map[uuid.UUID]catalog.CustomBeverage
	fixedItems       map[uuid.UUID]catalog.FixedPriceItem
	taxRates         map[uuid.UUID]catalog.TaxRate
	calls            map[string]int
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	return &fakeCatalog{
		cupSizes: map[uuid.UUID]catalog.CupSize{
			sizeMedioID:  {ID: sizeMedioID, Name: "Medio", BasePrice: dec(t, "3.50"), Multiplier: dec(t, "1.00")},
			sizeGrandeID: {ID: sizeGrandeID, Name: "Grande", BasePrice: dec(t, "5.00"), Multiplier: dec(t, "1.30")},
		},
		ingredients: map[uuid.UUID]catalog.Ingredient{
			ingCioccolatoID: {ID: ingCioccolatoID, Name: "Cioccolato", AddedPrice: dec(t, "1.00"), Available: true},
			ingPannaID:      {ID: ingPannaID, Name: "Panna", AddedPrice: dec(t, "0.90"), Available: true},
		},
		personalizations: map[uuid.UUID]catalog.Personalization{
			persMochaID: {ID: persMochaID, Name: "Mocha", Items: []catalog.PersonalizationItem{
				{IngredientID: ingCioccolatoID, Quantity: 1},
			}},
			persVuotaID: {ID: persVuotaID, Name: "Liscio", Items: nil},
			persDoppiaID: {ID: persDoppiaID, Name: "Doppio cioccolato", Items: []catalog.PersonalizationItem{
				{IngredientID: ingCioccolatoID, Quantity: 2},
				{IngredientID: ingCioccolatoID, Quantity: 1},
				{IngredientID: ingPannaID, Quantity: 1},
			}},
		},
		beverages: map[uuid.UUID]catalog.CustomBeverage{
			bevMochaMedioID:  {ID: bevMochaMedioID, PersonalizationID: persMochaID, CupSizeID: sizeMedioID},
			bevMochaGrandeID: {ID: bevMochaGrandeID, PersonalizationID: persMochaID, CupSizeID: sizeGrandeID},
			bevVuotaID:       {ID: bevVuotaID, PersonalizationID: persVuotaID, CupSizeID: sizeMedioID},
			bevDoppiaID:      {ID: bevDoppiaID, PersonalizationID: persDoppiaID, CupSizeID: sizeMedioID},
			bevOrphanID:      {ID: bevOrphanID, PersonalizationID: persMochaID, CupSizeID: uuid.Nil},
		},
		fixedItems: map[uuid.UUID]catalog.FixedPriceItem{
			colaID:     {ID: colaID, Name: "Coca Cola", Kind: catalog.KindStandardBeverage, Price: dec(t, "4.50")},
			tiramisuID: {ID: tiramisuID, Name: "Tiramisu", Kind: catalog.KindDessert, Price: dec(t, "4.00")},
		},
		taxRates: map[uuid.UUID]catalog.TaxRate{
			rate22ID: {ID: rate22ID, Name: "IVA ordinaria", Percentage: dec(t, "22.00")},
			rate10ID: {ID: rate10ID, Name: "IVA ridotta", Percentage: dec(t, "10.00")},
			rate0ID:  {ID: rate0ID, Name: "Esente", Percentage: dec(t, "0.00")},
		},
		calls: map[string]int{},
	}
}

func (f *fakeCatalog) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeCatalog) CupSize(_ context.Context, id uuid.UUID) (catalog.CupSize, error) {
	f.record("cupsize")
	cs, ok := f.cupSizes[id]
	if !ok {
		return catalog.CupSize{}, common.NotFound("cup size not found", nil)
	}
	return cs, nil
}

func (f *fakeCatalog) Ingredient(_ context.Context, id uuid.UUID) (catalog.Ingredient, error) {
	f.record("ingredient")
	ing, ok := f.ingredients[id]
	if !ok {
		return catalog.Ingredient{}, common.NotFound("ingredient not found", nil)
	}
	return ing, nil
}

func (f *fakeCatalog) Personalization(_ context.Context, id uuid.UUID) (catalog.Personalization, error) {
	f.record("personalization")
	pers, ok := f.personalizations[id]
	if !ok {
		return catalog.Personalization{}, common.NotFound("personalization not found", nil)
	}
	return pers, nil
}

func (f *fakeCatalog) CustomBeverage(_ context.Context, id uuid.UUID) (catalog.CustomBeverage, error) {
	f.record("beverage")
	bev, ok := f.beverages[id]
	if !ok {
		return catalog.CustomBeverage{}, common.NotFound("custom beverage not found", nil)
	}
	return bev, nil
}

func (f *fakeCatalog) FixedPriceItem(_ context.Context, id uuid.UUID, kind catalog.FixedItemKind) (catalog.FixedPriceItem, error) {
	f.record("fixeditem")
	item, ok := f.fixedItems[id]
	if !ok || item.Kind != kind {
		return catalog.FixedPriceItem{}, common.NotFound("menu item not found", nil)
	}
	return item, nil
}

func (f *fakeCatalog) TaxRate(_ context.Context, id uuid.UUID) (catalog.TaxRate, error) {
	f.record("taxrate")
	tr, ok := f.taxRates[id]
	if !ok {
		return catalog.TaxRate{}, common.NotFound("tax rate not found", nil)
	}
	return tr, nil
}

// fakeMaintainer records cache maintenance calls.
type fakeMaintainer struct {
	mu          sync.Mutex
	preloads    int
	clears      int
	preloadErr  error
	clearResult error
}

func (m *fakeMaintainer) Preload(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preloads++
	return m.preloadErr
}

func (m *fakeMaintainer) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	return m.clearResult
}

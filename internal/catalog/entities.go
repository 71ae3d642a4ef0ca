package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// All prices in the menu catalog are stored tax inclusive. The taxable base
// is derived from the gross figure by division, never the other way around.

// CupSize describes a beverage cup format. The multiplier scales ingredient
// surcharges only; the base price is charged as stored.
type CupSize struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Ingredient is an add-on whose price contributes to a custom beverage.
// Available gates ordering flows elsewhere; it does not affect pricing.
type Ingredient struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	AddedPrice decimal.Decimal `json:"added_price"`
	Available  bool            `json:"available"`
}

// PersonalizationItem links an ingredient to a personalization. Quantity is
// informational: an ingredient prices exactly once per personalization.
type PersonalizationItem struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Quantity     int32     `json:"quantity"`
}

// Personalization is a named set of ingredient contributions.
type Personalization struct {
	ID    uuid.UUID             `json:"id"`
	Name  string                `json:"name"`
	Items []PersonalizationItem `json:"items"`
}

// CustomBeverage ties a personalization to a cup size. Its price is never
// stored; it is always derived at calculation time.
type CustomBeverage struct {
	ID                uuid.UUID `json:"id"`
	PersonalizationID uuid.UUID `json:"personalization_id"`
	CupSizeID         uuid.UUID `json:"cup_size_id"`
}

// FixedItemKind distinguishes the two fixed-price menu families.
type FixedItemKind string

const (
	KindStandardBeverage FixedItemKind = "standard-beverage"
	KindDessert          FixedItemKind = "dessert"
)

// FixedPriceItem is a standard beverage or dessert with a stored gross price.
type FixedPriceItem struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Kind  FixedItemKind   `json:"kind"`
	Price decimal.Decimal `json:"price"`
}

// TaxRate is a percentage VAT rate, e.g. 22.00 meaning 22%.
type TaxRate struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

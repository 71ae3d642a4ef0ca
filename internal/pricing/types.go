package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bar/internal/common"
)

// ItemType is the closed set of priceable menu item kinds.
type ItemType string

const (
	ItemTypeCustomBeverage   ItemType = "custom-beverage"
	ItemTypeStandardBeverage ItemType = "standard-beverage"
	ItemTypeDessert          ItemType = "dessert"
)

// Valid reports whether t is one of the three recognised tags.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeCustomBeverage, ItemTypeStandardBeverage, ItemTypeDessert:
		return true
	}
	return false
}

// QuoteRequest asks for the complete price of one menu item.
type QuoteRequest struct {
	ItemID    uuid.UUID `json:"item_id" validate:"required"`
	ItemType  ItemType  `json:"item_type" validate:"required,oneof=custom-beverage standard-beverage dessert"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	TaxRateID uuid.UUID `json:"tax_rate_id" validate:"required"`
}

// QuoteResult is the tax breakdown for a priced item. GrossTotal is tax
// inclusive; TaxableBase and TaxAmount are derived from it by division, and
// TaxableBase + TaxAmount always reassembles GrossTotal exactly.
type QuoteResult struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ItemType    ItemType        `json:"item_type"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	GrossTotal  decimal.Decimal `json:"gross_total"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TaxRatePct  decimal.Decimal `json:"tax_rate_pct"`
}

// BatchItem is the per-request outcome of a batch quote. Exactly one of
// Result and Err is set; Index points back at the originating request.
type BatchItem struct {
	Index  int
	Result *QuoteResult
	Err    error
}

// IngredientShare is one ingredient's contribution inside a breakdown.
type IngredientShare struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	AddedPrice decimal.Decimal `json:"added_price"`
}

// Breakdown itemises how a custom beverage price was assembled. Display and
// audit use only; transactional pricing goes through the engines.
type Breakdown struct {
	CustomBeverageID    uuid.UUID         `json:"custom_beverage_id"`
	PersonalizationName string            `json:"personalization_name"`
	CupSizeID           uuid.UUID         `json:"cup_size_id"`
	BasePrice           decimal.Decimal   `json:"base_price"`
	Multiplier          decimal.Decimal   `json:"multiplier"`
	IngredientSubtotal  decimal.Decimal   `json:"ingredient_subtotal"`
	Total               decimal.Decimal   `json:"total"`
	Ingredients         []IngredientShare `json:"ingredients"`
}

func errUnknownItemType(t ItemType) error {
	return common.InvalidArgument("unrecognized item type: "+string(t), nil)
}

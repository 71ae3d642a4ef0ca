package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bar/internal/catalog"
)

// CatalogReader is the read-only view of menu data the engines price from.
// The production implementation is the cached catalog; tests inject fakes.
type CatalogReader interface {
	CupSize(ctx context.Context, id uuid.UUID) (catalog.CupSize, error)
	Ingredient(ctx context.Context, id uuid.UUID) (catalog.Ingredient, error)
	Personalization(ctx context.Context, id uuid.UUID) (catalog.Personalization, error)
	CustomBeverage(ctx context.Context, id uuid.UUID) (catalog.CustomBeverage, error)
	FixedPriceItem(ctx context.Context, id uuid.UUID, kind catalog.FixedItemKind) (catalog.FixedPriceItem, error)
	TaxRate(ctx context.Context, id uuid.UUID) (catalog.TaxRate, error)
}

// Engine computes tax-inclusive unit prices for single menu items.
//
// unit = cup_size.base_price + cup_size.multiplier * sum(ingredient.added_price)
//
// The multiplier scales only the ingredient surcharges, never the base
// price. All arithmetic stays in decimal; only the returned value is
// rounded (2 places, half away from zero).
type Engine struct {
	Catalog CatalogReader
}

// UnitPriceCustomBeverage derives the price of a custom beverage from its
// cup size and personalization. An empty ingredient set prices at the cup
// size base alone.
func (e *Engine) UnitPriceCustomBeverage(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	bev, err := e.Catalog.CustomBeverage(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	size, err := e.Catalog.CupSize(ctx, bev.CupSizeID)
	if err != nil {
		return decimal.Zero, err
	}
	sum, _, err := e.ingredientSum(ctx, bev.PersonalizationID)
	if err != nil {
		return decimal.Zero, err
	}
	unit := size.BasePrice.Add(size.Multiplier.Mul(sum))
	return roundCurrency(unit), nil
}

// UnitPriceFixedItem returns the stored gross price of a standard beverage
// or dessert.
func (e *Engine) UnitPriceFixedItem(ctx context.Context, id uuid.UUID, kind catalog.FixedItemKind) (decimal.Decimal, error) {
	item, err := e.Catalog.FixedPriceItem(ctx, id, kind)
	if err != nil {
		return decimal.Zero, err
	}
	return roundCurrency(item.Price), nil
}

// PriceBreakdown itemises the custom beverage computation for display and
// audit.
func (e *Engine) PriceBreakdown(ctx context.Context, id uuid.UUID) (Breakdown, error) {
	bev, err := e.Catalog.CustomBeverage(ctx, id)
	if err != nil {
		return Breakdown{}, err
	}
	size, err := e.Catalog.CupSize(ctx, bev.CupSizeID)
	if err != nil {
		return Breakdown{}, err
	}
	pers, err := e.Catalog.Personalization(ctx, bev.PersonalizationID)
	if err != nil {
		return Breakdown{}, err
	}

	sum := decimal.Zero
	shares := make([]IngredientShare, 0, len(pers.Items))
	seen := make(map[uuid.UUID]struct{}, len(pers.Items))
	for _, item := range pers.Items {
		if _, ok := seen[item.IngredientID]; ok {
			continue
		}
		seen[item.IngredientID] = struct{}{}
		ing, err := e.Catalog.Ingredient(ctx, item.IngredientID)
		if err != nil {
			return Breakdown{}, fmt.Errorf("resolve ingredient %s: %w", item.IngredientID, err)
		}
		sum = sum.Add(ing.AddedPrice)
		shares = append(shares, IngredientShare{ID: ing.ID, Name: ing.Name, AddedPrice: ing.AddedPrice})
	}

	surcharge := size.Multiplier.Mul(sum)
	total := size.BasePrice.Add(surcharge)
	return Breakdown{
		CustomBeverageID:    bev.ID,
		PersonalizationName: pers.Name,
		CupSizeID:           size.ID,
		BasePrice:           size.BasePrice,
		Multiplier:          size.Multiplier,
		IngredientSubtotal:  roundCurrency(surcharge),
		Total:               roundCurrency(total),
		Ingredients:         shares,
	}, nil
}

// ingredientSum adds each distinct ingredient's price once. Quantity on a
// personalization item is presentational: presence is what prices.
func (e *Engine) ingredientSum(ctx context.Context, personalizationID uuid.UUID) (decimal.Decimal, *catalog.Personalization, error) {
	pers, err := e.Catalog.Personalization(ctx, personalizationID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	sum := decimal.Zero
	seen := make(map[uuid.UUID]struct{}, len(pers.Items))
	for _, item := range pers.Items {
		if _, ok := seen[item.IngredientID]; ok {
			continue
		}
		seen[item.IngredientID] = struct{}{}
		ing, err := e.Catalog.Ingredient(ctx, item.IngredientID)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("resolve ingredient %s: %w", item.IngredientID, err)
		}
		sum = sum.Add(ing.AddedPrice)
	}
	return sum, &pers, nil
}

// roundCurrency rounds to two decimal places, half away from zero.
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

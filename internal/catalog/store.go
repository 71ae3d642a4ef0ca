package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bar/internal/common"
)

// Store reads menu catalog entities from Postgres. The pricing core never
// writes catalog data; mutations belong to the catalog management surface.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store over the provided pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CupSize returns a cup size by id.
func (s *Store) CupSize(ctx context.Context, id uuid.UUID) (CupSize, error) {
	const q = `SELECT id, name, base_price::text, multiplier::text FROM cup_sizes WHERE id = $1`
	var (
		out        CupSize
		basePrice  string
		multiplier string
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.Name, &basePrice, &multiplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CupSize{}, common.NotFound("cup size not found", err)
		}
		return CupSize{}, fmt.Errorf("get cup size: %w", err)
	}
	if out.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return CupSize{}, fmt.Errorf("parse cup size base price: %w", err)
	}
	if out.Multiplier, err = decimal.NewFromString(multiplier); err != nil {
		return CupSize{}, fmt.Errorf("parse cup size multiplier: %w", err)
	}
	return out, nil
}

// Ingredient returns an ingredient by id.
func (s *Store) Ingredient(ctx context.Context, id uuid.UUID) (Ingredient, error) {
	const q = `SELECT id, name, added_price::text, available FROM ingredients WHERE id = $1`
	var (
		out        Ingredient
		addedPrice string
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.Name, &addedPrice, &out.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ingredient{}, common.NotFound("ingredient not found", err)
		}
		return Ingredient{}, fmt.Errorf("get ingredient: %w", err)
	}
	if out.AddedPrice, err = decimal.NewFromString(addedPrice); err != nil {
		return Ingredient{}, fmt.Errorf("parse ingredient price: %w", err)
	}
	return out, nil
}

// Personalization returns a personalization with its ingredient items.
func (s *Store) Personalization(ctx context.Context, id uuid.UUID) (Personalization, error) {
	const q = `SELECT id, name FROM personalizations WHERE id = $1`
	var out Personalization
	if err := s.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Personalization{}, common.NotFound("personalization not found", err)
		}
		return Personalization{}, fmt.Errorf("get personalization: %w", err)
	}

	const itemsQ = `SELECT ingredient_id, quantity FROM personalization_items WHERE personalization_id = $1 ORDER BY ingredient_id`
	rows, err := s.pool.Query(ctx, itemsQ, id)
	if err != nil {
		return Personalization{}, fmt.Errorf("list personalization items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item PersonalizationItem
		if err := rows.Scan(&item.IngredientID, &item.Quantity); err != nil {
			return Personalization{}, fmt.Errorf("scan personalization item: %w", err)
		}
		out.Items = append(out.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Personalization{}, fmt.Errorf("iterate personalization items: %w", err)
	}
	return out, nil
}

// CustomBeverage returns a custom beverage instance by id.
func (s *Store) CustomBeverage(ctx context.Context, id uuid.UUID) (CustomBeverage, error) {
	const q = `SELECT id, personalization_id, cup_size_id FROM custom_beverages WHERE id = $1`
	var out CustomBeverage
	err := s.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.PersonalizationID, &out.CupSizeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomBeverage{}, common.NotFound("custom beverage not found", err)
		}
		return CustomBeverage{}, fmt.Errorf("get custom beverage: %w", err)
	}
	return out, nil
}

// FixedPriceItem returns a standard beverage or dessert by id and kind.
func (s *Store) FixedPriceItem(ctx context.Context, id uuid.UUID, kind FixedItemKind) (FixedPriceItem, error) {
	const q = `SELECT id, name, kind, price::text FROM fixed_price_items WHERE id = $1 AND kind = $2`
	var (
		out   FixedPriceItem
		price string
	)
	err := s.pool.QueryRow(ctx, q, id, string(kind)).Scan(&out.ID, &out.Name, &out.Kind, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FixedPriceItem{}, common.NotFound("menu item not found", err)
		}
		return FixedPriceItem{}, fmt.Errorf("get fixed price item: %w", err)
	}
	if out.Price, err = decimal.NewFromString(price); err != nil {
		return FixedPriceItem{}, fmt.Errorf("parse item price: %w", err)
	}
	return out, nil
}

// TaxRate returns a tax rate by id.
func (s *Store) TaxRate(ctx context.Context, id uuid.UUID) (TaxRate, error) {
	const q = `SELECT id, name, percentage::text FROM tax_rates WHERE id = $1`
	var (
		out        TaxRate
		percentage string
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.Name, &percentage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TaxRate{}, common.NotFound("tax rate not found", err)
		}
		return TaxRate{}, fmt.Errorf("get tax rate: %w", err)
	}
	if out.Percentage, err = decimal.NewFromString(percentage); err != nil {
		return TaxRate{}, fmt.Errorf("parse tax rate percentage: %w", err)
	}
	return out, nil
}

// ListCupSizes returns every cup size, sorted by base price.
func (s *Store) ListCupSizes(ctx context.Context) ([]CupSize, error) {
	const q = `SELECT id, name, base_price::text, multiplier::text FROM cup_sizes ORDER BY base_price, name`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list cup sizes: %w", err)
	}
	defer rows.Close()
	var result []CupSize
	for rows.Next() {
		var (
			cs         CupSize
			basePrice  string
			multiplier string
		)
		if err := rows.Scan(&cs.ID, &cs.Name, &basePrice, &multiplier); err != nil {
			return nil, fmt.Errorf("scan cup size: %w", err)
		}
		if cs.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
			return nil, fmt.Errorf("parse cup size base price: %w", err)
		}
		if cs.Multiplier, err = decimal.NewFromString(multiplier); err != nil {
			return nil, fmt.Errorf("parse cup size multiplier: %w", err)
		}
		result = append(result, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cup sizes: %w", err)
	}
	return result, nil
}

// ListTaxRates returns every tax rate, sorted by percentage.
func (s *Store) ListTaxRates(ctx context.Context) ([]TaxRate, error) {
	const q = `SELECT id, name, percentage::text FROM tax_rates ORDER BY percentage, name`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tax rates: %w", err)
	}
	defer rows.Close()
	var result []TaxRate
	for rows.Next() {
		var (
			tr         TaxRate
			percentage string
		)
		if err := rows.Scan(&tr.ID, &tr.Name, &percentage); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		if tr.Percentage, err = decimal.NewFromString(percentage); err != nil {
			return nil, fmt.Errorf("parse tax rate percentage: %w", err)
		}
		result = append(result, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tax rates: %w", err)
	}
	return result, nil
}

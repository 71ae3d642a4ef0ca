package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/backend-bar/internal/catalog"
	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/obs"
)

var (
	hundred       = decimal.NewFromInt(100)
	centTolerance = decimal.New(1, -2) // 0.01
)

// CacheMaintainer covers the cache maintenance surface of the catalog.
type CacheMaintainer interface {
	Preload(ctx context.Context) error
	Clear(ctx context.Context) error
}

// TaxEngine wraps the basic engine with tax back-calculation, discounting,
// batch pricing, validation and cache maintenance.
//
// Catalog prices are stored tax inclusive, so the taxable base comes from
// dividing the gross figure by (1 + rate/100). Multiplying a net price by
// (1 + rate/100) instead would invert the model and is wrong here.
type TaxEngine struct {
	Basic            *Engine
	Catalog          CatalogReader
	Maintainer       CacheMaintainer
	BatchConcurrency int
}

// TaxRatePercent resolves a tax rate's percentage, e.g. 22.00 for 22%.
func (t *TaxEngine) TaxRatePercent(ctx context.Context, taxRateID uuid.UUID) (decimal.Decimal, error) {
	rate, err := t.Catalog.TaxRate(ctx, taxRateID)
	if err != nil {
		return decimal.Zero, err
	}
	return rate.Percentage, nil
}

// TaxableBase back-calculates the taxable portion of a gross amount:
// gross / (1 + rate/100), rounded to two decimals.
func (t *TaxEngine) TaxableBase(ctx context.Context, gross decimal.Decimal, taxRateID uuid.UUID) (decimal.Decimal, error) {
	if gross.IsNegative() {
		return decimal.Zero, common.InvalidArgument("gross amount must not be negative", nil)
	}
	pct, err := t.TaxRatePercent(ctx, taxRateID)
	if err != nil {
		return decimal.Zero, err
	}
	return taxableBase(gross, pct), nil
}

// TaxAmount is the tax share of a gross amount. It is defined as
// gross - TaxableBase so that base + tax always reassembles the gross.
func (t *TaxEngine) TaxAmount(ctx context.Context, gross decimal.Decimal, taxRateID uuid.UUID) (decimal.Decimal, error) {
	base, err := t.TaxableBase(ctx, gross, taxRateID)
	if err != nil {
		return decimal.Zero, err
	}
	return gross.Sub(base), nil
}

// CompletePrice resolves the unit price for the requested item, extends it
// by quantity and derives the tax breakdown from the gross total.
func (t *TaxEngine) CompletePrice(ctx context.Context, req QuoteRequest) (QuoteResult, error) {
	res, err := t.completePrice(ctx, req)
	obs.IncQuote(string(req.ItemType), quoteResultLabel(err))
	return res, err
}

func (t *TaxEngine) completePrice(ctx context.Context, req QuoteRequest) (QuoteResult, error) {
	if req.Quantity <= 0 {
		return QuoteResult{}, common.InvalidArgument("quantity must be positive", nil)
	}

	var (
		unit decimal.Decimal
		err  error
	)
	switch req.ItemType {
	case ItemTypeCustomBeverage:
		unit, err = t.Basic.UnitPriceCustomBeverage(ctx, req.ItemID)
	case ItemTypeStandardBeverage:
		unit, err = t.Basic.UnitPriceFixedItem(ctx, req.ItemID, catalog.KindStandardBeverage)
	case ItemTypeDessert:
		unit, err = t.Basic.UnitPriceFixedItem(ctx, req.ItemID, catalog.KindDessert)
	default:
		return QuoteResult{}, errUnknownItemType(req.ItemType)
	}
	if err != nil {
		return QuoteResult{}, err
	}

	pct, err := t.TaxRatePercent(ctx, req.TaxRateID)
	if err != nil {
		return QuoteResult{}, err
	}

	gross := unit.Mul(decimal.NewFromInt(int64(req.Quantity)))
	base := taxableBase(gross, pct)
	return QuoteResult{
		ItemID:      req.ItemID,
		ItemType:    req.ItemType,
		UnitPrice:   unit,
		Quantity:    req.Quantity,
		GrossTotal:  gross,
		TaxableBase: base,
		TaxAmount:   gross.Sub(base),
		TaxRatePct:  pct,
	}, nil
}

// BatchCompletePrice prices every request independently and returns one
// outcome per request, aligned with the input order. One failing request
// never aborts the rest; the call itself errors only when the context is
// cancelled.
func (t *TaxEngine) BatchCompletePrice(ctx context.Context, reqs []QuoteRequest) ([]BatchItem, error) {
	obs.ObserveBatchSize(len(reqs))
	out := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency())
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := t.CompletePrice(gctx, req)
			if err != nil {
				out[i] = BatchItem{Index: i, Err: err}
				return nil
			}
			out[i] = BatchItem{Index: i, Result: &res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyDiscount reduces an amount by a percentage in [0, 100], rounded to
// two decimals.
func (t *TaxEngine) ApplyDiscount(amount, percent decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, common.InvalidArgument("amount must not be negative", nil)
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Zero, common.InvalidArgument("discount percent must be between 0 and 100", nil)
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(hundred))
	return roundCurrency(amount.Mul(factor)), nil
}

// ValidatePrice recomputes the unit price for an item and reports whether
// it matches the expected value within one cent. A legitimate mismatch is
// an expected outcome, never an error; unresolvable inputs still fail.
func (t *TaxEngine) ValidatePrice(ctx context.Context, itemID uuid.UUID, itemType ItemType, expected decimal.Decimal) (bool, error) {
	var (
		unit decimal.Decimal
		err  error
	)
	switch itemType {
	case ItemTypeCustomBeverage:
		unit, err = t.Basic.UnitPriceCustomBeverage(ctx, itemID)
	case ItemTypeStandardBeverage:
		unit, err = t.Basic.UnitPriceFixedItem(ctx, itemID, catalog.KindStandardBeverage)
	case ItemTypeDessert:
		unit, err = t.Basic.UnitPriceFixedItem(ctx, itemID, catalog.KindDessert)
	default:
		return false, errUnknownItemType(itemType)
	}
	if err != nil {
		return false, err
	}
	return unit.Sub(expected).Abs().LessThanOrEqual(centTolerance), nil
}

// PreloadCache warms the catalog lookup cache.
func (t *TaxEngine) PreloadCache(ctx context.Context) error {
	if t.Maintainer == nil {
		return nil
	}
	return t.Maintainer.Preload(ctx)
}

// ClearCache evicts the catalog lookup cache. Clearing an empty cache is a
// no-op, not an error.
func (t *TaxEngine) ClearCache(ctx context.Context) error {
	if t.Maintainer == nil {
		return nil
	}
	return t.Maintainer.Clear(ctx)
}

func (t *TaxEngine) concurrency() int {
	if t.BatchConcurrency > 0 {
		return t.BatchConcurrency
	}
	return 8
}

// taxableBase divides the gross by (1 + pct/100) and rounds to two
// decimals. Intermediate division precision follows the decimal package
// default, which is ample for two-decimal currency.
func taxableBase(gross, pct decimal.Decimal) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(pct.Div(hundred))
	return roundCurrency(gross.Div(divisor))
}

func quoteResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case common.IsNotFound(err):
		return "not_found"
	case common.IsInvalidArgument(err):
		return "invalid"
	default:
		return "error"
	}
}

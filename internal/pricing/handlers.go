package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/lock"
)

// Handler exposes the pricing engines over HTTP.
type Handler struct {
	engine         *TaxEngine
	locker         *lock.Locker
	preloadLockTTL time.Duration
	maxBatch       int
	validate       *validator.Validate
}

// HandlerConfig groups Handler dependencies. Locker is optional; when set,
// overlapping preload requests are coalesced instead of warming twice.
type HandlerConfig struct {
	Engine         *TaxEngine
	Locker         *lock.Locker
	PreloadLockTTL time.Duration
	MaxBatch       int
}

// NewHandler constructs a pricing Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	maxBatch := cfg.MaxBatch
	if maxBatch < 1 {
		maxBatch = 100
	}
	return &Handler{
		engine:         cfg.Engine,
		locker:         cfg.Locker,
		preloadLockTTL: cfg.PreloadLockTTL,
		maxBatch:       maxBatch,
		validate:       validator.New(),
	}
}

type batchRequest struct {
	Requests []QuoteRequest `json:"requests" validate:"required,min=1,dive"`
}

type batchOutcome struct {
	Index  int               `json:"index"`
	Result *QuoteResult      `json:"result,omitempty"`
	Error  *common.ErrorBody `json:"error,omitempty"`
}

type validateRequest struct {
	ItemID        uuid.UUID       `json:"item_id" validate:"required"`
	ItemType      ItemType        `json:"item_type" validate:"required,oneof=custom-beverage standard-beverage dessert"`
	ExpectedPrice decimal.Decimal `json:"expected_price"`
}

// Quote prices a single item and returns its tax breakdown.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid quote request", err.Error())
		return
	}
	result, err := h.engine.CompletePrice(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// QuoteBatch prices every request independently. Outcomes come back in
// request order; a failing item carries its own error without aborting the
// rest.
func (h *Handler) QuoteBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid batch request", err.Error())
		return
	}
	if len(req.Requests) > h.maxBatch {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "too many batch requests", map[string]any{"max": h.maxBatch})
		return
	}
	items, err := h.engine.BatchCompletePrice(r.Context(), req.Requests)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	outcomes := make([]batchOutcome, len(items))
	for i, item := range items {
		outcomes[i] = batchOutcome{Index: item.Index, Result: item.Result, Error: common.ErrBody(item.Err)}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": outcomes})
}

// Validate recomputes an item's unit price and reports whether it matches
// the expected value within one cent. A mismatch is a false result, not an
// error.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid validate request", err.Error())
		return
	}
	valid, err := h.engine.ValidatePrice(r.Context(), req.ItemID, req.ItemType, req.ExpectedPrice)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"valid": valid}})
}

// Breakdown itemises a custom beverage price for display and audit.
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidArgument, "invalid custom beverage id", nil)
		return
	}
	breakdown, err := h.engine.Basic.PriceBreakdown(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": breakdown})
}

// CachePreload warms the catalog lookup cache.
func (h *Handler) CachePreload(w http.ResponseWriter, r *http.Request) {
	var err error
	if h.locker != nil {
		err = h.locker.TryWithLock(r.Context(), "menu:preload:lock", h.preloadLockTTL, func(ctx context.Context) error {
			return h.engine.PreloadCache(ctx)
		})
	} else {
		err = h.engine.PreloadCache(r.Context())
	}
	if errors.Is(err, lock.ErrHeld) {
		common.JSONError(w, http.StatusConflict, "CONFLICT", "cache preload already in progress", nil)
		return
	}
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"status": "preloaded"}})
}

// CacheClear evicts the catalog lookup cache. Clearing an empty cache
// succeeds.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ClearCache(r.Context()); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"status": "cleared"}})
}

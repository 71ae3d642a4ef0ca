package catalog

import (
	"net/http"

	"github.com/noah-isme/backend-bar/internal/common"
)

// Handler exposes read-only menu endpoints.
type Handler struct {
	service *Catalog
}

// HandlerConfig groups Handler dependencies.
type HandlerConfig struct {
	Service *Catalog
}

// NewHandler constructs a menu Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// CupSizes returns every cup size with base price and multiplier.
func (h *Handler) CupSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.service.CupSizes(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if sizes == nil {
		sizes = []CupSize{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sizes})
}

// TaxRates returns every configured tax rate.
func (h *Handler) TaxRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.TaxRates(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if rates == nil {
		rates = []TaxRate{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rates})
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/receivable360/backend/internal/application/settings"
	"github.com/receivable360/backend/internal/domain/receivable"
)

// RatesResponse is the settings payload
type RatesResponse struct {
	CostOfCashAnnual float64 `json:"cost_of_cash_annual"`
	LateFeeAnnual    float64 `json:"late_fee_rate_annual"`
}

// UpdateRatesRequest is the settings update payload. Both rates travel
// together so a partial update cannot leave the pair inconsistent.
type UpdateRatesRequest struct {
	CostOfCashAnnual *float64 `json:"cost_of_cash_annual" binding:"required"`
	LateFeeAnnual    *float64 `json:"late_fee_rate_annual" binding:"required"`
}

// SettingsHandler serves the tunable rate parameters
type SettingsHandler struct {
	BaseHandler
	settings *settings.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settings.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// Get returns the current rates
func (h *SettingsHandler) Get(c *gin.Context) {
	rates, err := h.settings.Rates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ratesResponse(rates))
}

// Update stores a new rate pair
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "both cost_of_cash_annual and late_fee_rate_annual are required")
		return
	}

	rates, err := h.settings.Update(c.Request.Context(), *req.CostOfCashAnnual, *req.LateFeeAnnual)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ratesResponse(rates))
}

func ratesResponse(rates receivable.Rates) RatesResponse {
	return RatesResponse{
		CostOfCashAnnual: rates.CostOfCashAnnual,
		LateFeeAnnual:    rates.LateFeeAnnual,
	}
}

// RegisterRoutes registers the settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}

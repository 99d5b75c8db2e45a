package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/receivable360/backend/internal/application/report"
)

// defaultRankingLimit bounds the top-N views when no limit is given.
const defaultRankingLimit = 10

// CustomerReportHandler serves the per-customer views and rankings
type CustomerReportHandler struct {
	BaseHandler
	reports *report.CustomerReportService
	export  *report.LossExportService
}

// NewCustomerReportHandler creates a new CustomerReportHandler
func NewCustomerReportHandler(reports *report.CustomerReportService, export *report.LossExportService) *CustomerReportHandler {
	return &CustomerReportHandler{reports: reports, export: export}
}

// List returns every known customer for selection lists
func (h *CustomerReportHandler) List(c *gin.Context) {
	customers, err := h.reports.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// TopRisky returns the riskiest customers, optionally restricted to a region
// and re-ranked by the sort_by query parameter.
func (h *CustomerReportHandler) TopRisky(c *gin.Context) {
	regionID, ok := queryRegionID(c)
	if !ok {
		h.BadRequest(c, "region_id must be an integer")
		return
	}
	limit := queryLimit(c, "limit", defaultRankingLimit)
	sortBy := c.DefaultQuery("sort_by", report.SortByRisk)

	customers, err := h.reports.TopRisky(c.Request.Context(), limit, regionID, sortBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// TopUnpaid returns the customers with the most open invoices
func (h *CustomerReportHandler) TopUnpaid(c *gin.Context) {
	regionID, ok := queryRegionID(c)
	if !ok {
		h.BadRequest(c, "region_id must be an integer")
		return
	}
	limit := queryLimit(c, "limit", defaultRankingLimit)

	customers, err := h.reports.TopUnpaid(c.Request.Context(), limit, regionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// Summary returns one customer's KPI set
func (h *CustomerReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context(), c.Param("customer_no"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Invoices lists one customer's invoices with their overdue state
func (h *CustomerReportHandler) Invoices(c *gin.Context) {
	invoices, err := h.reports.Invoices(c.Request.Context(), c.Param("customer_no"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// LatePayments lists one customer's payments with the loss each caused
func (h *CustomerReportHandler) LatePayments(c *gin.Context) {
	payments, err := h.reports.LatePayments(c.Request.Context(), c.Param("customer_no"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// FinancialLossExport streams the customer's loss breakdown as a workbook
// download.
func (h *CustomerReportHandler) FinancialLossExport(c *gin.Context) {
	export, err := h.export.CustomerLossWorkbook(c.Request.Context(), c.Param("customer_no"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+url.PathEscape(export.Filename)+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.Content)
}

// RegisterRoutes registers the customer report routes
func (h *CustomerReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.List)
		customers.GET("/top-risky", h.TopRisky)
		customers.GET("/top-unpaid", h.TopUnpaid)
		customers.GET("/:customer_no/summary", h.Summary)
		customers.GET("/:customer_no/invoices", h.Invoices)
		customers.GET("/:customer_no/late-payments", h.LatePayments)
		customers.GET("/:customer_no/financial-loss-export", h.FinancialLossExport)
	}
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/receivable360/backend/internal/application/report"
)

// RegionReportHandler serves the per-region aggregations
type RegionReportHandler struct {
	BaseHandler
	reports *report.RegionReportService
}

// NewRegionReportHandler creates a new RegionReportHandler
func NewRegionReportHandler(reports *report.RegionReportService) *RegionReportHandler {
	return &RegionReportHandler{reports: reports}
}

// Summary returns the per-region KPI aggregation, riskiest first
func (h *RegionReportHandler) Summary(c *gin.Context) {
	summaries, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summaries)
}

// Customers returns one region's riskiest customers
func (h *RegionReportHandler) Customers(c *gin.Context) {
	regionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "region id must be an integer")
		return
	}
	limit := queryLimit(c, "limit", defaultRankingLimit)

	result, err := h.reports.Customers(c.Request.Context(), regionID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers the region report routes
func (h *RegionReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	regions := rg.Group("/regions")
	{
		regions.GET("/summary", h.Summary)
		regions.GET("/:id/customers", h.Customers)
	}
}

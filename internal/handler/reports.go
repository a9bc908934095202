package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales
// @Summary      Sales, returns, discounts and profit for a date range
// @Tags         reports
// @Produce      json
// @Param        from query string true  "YYYY-MM-DD"
// @Param        to   query string true  "YYYY-MM-DD"
// @Param        cal  query string false "jalali = dates are Solar Hijri"
// @Success      200 {object} dto.SalesReportResponse
// @Router       /v1/reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.reports.SalesReport(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockValuation
// @Summary      Current warehouse value at batch purchase costs
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.StockValuationResponse
// @Router       /v1/reports/stock-valuation [get]
func (h *ReportHandler) StockValuation(c *gin.Context) {
	resp, err := h.reports.StockValuation(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Balances
// @Summary      Outstanding customer, supplier and employee balances
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.BalancesSummaryResponse
// @Router       /v1/reports/balances [get]
func (h *ReportHandler) Balances(c *gin.Context) {
	resp, err := h.reports.BalancesSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

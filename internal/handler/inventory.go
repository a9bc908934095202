package handler

import (
	"net/http"
	"strconv"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventory service.InventoryService
}

func NewInventoryHandler(inventory service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// AdjustBatch
// @Summary      Manually correct one batch's stock (manager)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body body dto.AdjustBatchRequest true "Adjustment"
// @Success      201 {object} dto.StockMovementResponse
// @Router       /v1/inventory/adjust [post]
func (h *InventoryHandler) AdjustBatch(c *gin.Context) {
	var req dto.AdjustBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.inventory.AdjustBatch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMovements
// @Summary      List stock movements (filterable, paginated)
// @Tags         inventory
// @Produce      json
// @Param        product_id query string false "Product ID"
// @Param        kind       query string false "Movement kind"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.inventory.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock
// @Summary      Products whose stock fell below their minimum
// @Tags         inventory
// @Produce      json
// @Success      200 {array} dto.LowStockAlert
// @Router       /v1/inventory/alerts/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.inventory.LowStockAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Expiring
// @Summary      Batches expiring within N days (default 30)
// @Tags         inventory
// @Produce      json
// @Param        days query int false "Horizon in days"
// @Success      200 {array} dto.ExpiryAlert
// @Router       /v1/inventory/alerts/expiring [get]
func (h *InventoryHandler) Expiring(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("days must be a positive integer"))
			return
		}
		days = parsed
	}
	resp, err := h.inventory.ExpiryAlerts(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

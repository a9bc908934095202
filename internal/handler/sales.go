package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/middleware"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct {
	sales service.SaleService
}

func NewSaleHandler(sales service.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

func cashierID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("missing token claims"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("invalid user id in token"))
		return uuid.Nil, false
	}
	return id, true
}

// Create
// @Summary      Record a sale, deducting stock FIFO across batches
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateSaleRequest true "Sale"
// @Success      201 {object} dto.SaleResponse
// @Failure      409 {object} apierror.APIError "insufficient stock"
// @Router       /v1/sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	cashier, ok := cashierID(c)
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.CreateSale(c.Request.Context(), cashier, req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Edit
// @Summary      Replace an invoice's lines, restoring and re-deducting stock
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id   path string true "Invoice ID"
// @Param        body body dto.EditSaleRequest true "Replacement lines"
// @Success      200 {object} dto.SaleResponse
// @Router       /v1/sales/{id} [put]
func (h *SaleHandler) Edit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.EditSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.EditSale(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Return
// @Summary      Return goods against a sale, restoring stock
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body dto.ReturnSaleRequest true "Return"
// @Success      201 {object} dto.SaleResponse
// @Router       /v1/sales/returns [post]
func (h *SaleHandler) Return(c *gin.Context) {
	cashier, ok := cashierID(c)
	if !ok {
		return
	}
	var req dto.ReturnSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.ReturnSale(c.Request.Context(), cashier, req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Void
// @Summary      Void a sale entirely (manager), reversing stock and ledger
// @Tags         sales
// @Accept       json
// @Param        id   path string true "Invoice ID"
// @Param        body body dto.VoidSaleRequest true "Reason"
// @Success      204
// @Router       /v1/sales/{id}/void [post]
func (h *SaleHandler) Void(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.VoidSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.sales.VoidSale(c.Request.Context(), id, req.Reason); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Get
// @Summary      Fetch one sale invoice
// @Tags         sales
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List
// @Summary      List sales for a day (Gregorian or Jalali date)
// @Tags         sales
// @Produce      json
// @Param        date query string false "YYYY-MM-DD, default today"
// @Param        cal  query string false "jalali = date is Solar Hijri"
// @Param        kind query string false "sale | return | all"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.sales.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchases service.PurchaseService
}

func NewPurchaseHandler(purchases service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Create
// @Summary      Record a supplier purchase, creating one batch per line
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body body dto.CreatePurchaseRequest true "Purchase"
// @Success      201 {object} dto.PurchaseResponse
// @Router       /v1/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.purchases.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Return
// @Summary      Return goods to a supplier against a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body body dto.ReturnPurchaseRequest true "Return"
// @Success      201 {object} dto.PurchaseResponse
// @Router       /v1/purchases/returns [post]
func (h *PurchaseHandler) Return(c *gin.Context) {
	var req dto.ReturnPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.purchases.ReturnPurchase(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Delete
// @Summary      Roll back a purchase whose batches are still untouched (manager)
// @Tags         purchases
// @Param        id path string true "Invoice ID"
// @Success      204
// @Failure      409 {object} apierror.APIError "stock already moved"
// @Router       /v1/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.purchases.DeletePurchase(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Get
// @Summary      Fetch one purchase invoice
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.PurchaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/purchases/{id} [get]
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.purchases.GetPurchase(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List
// @Summary      List purchases (filterable, paginated)
// @Tags         purchases
// @Produce      json
// @Param        supplier_id query string false "Supplier ID"
// @Param        kind        query string false "purchase | return | all"
// @Success      200 {object} dto.PurchaseListResponse
// @Router       /v1/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.purchases.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

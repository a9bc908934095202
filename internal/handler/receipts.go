package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receipts service.ReceiptService
}

func NewReceiptHandler(receipts service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Status
// @Summary      Receipt generation status for a sale
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.ReceiptResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/receipt [get]
func (h *ReceiptHandler) Status(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.receipts.GetBySale(c.Request.Context(), saleID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Download
// @Summary      Download the generated receipt PDF
// @Tags         receipts
// @Produce      application/pdf
// @Param        id path string true "Sale ID"
// @Success      200 {file} binary
// @Failure      409 {object} apierror.APIError "not generated yet"
// @Router       /v1/sales/{id}/receipt/pdf [get]
func (h *ReceiptHandler) Download(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}
	path, err := h.receipts.PDFPath(c.Request.Context(), saleID)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgers service.LedgerService
}

func NewLedgerHandler(ledgers service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgers: ledgers}
}

// Payment
// @Summary      Record a payment that settles part of a party's balance
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Param        type path string true "customer | supplier"
// @Param        id   path string true "Party ID"
// @Param        body body dto.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.LedgerEntryResponse
// @Router       /v1/parties/{type}/{id}/payments [post]
func (h *LedgerHandler) Payment(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledgers.RecordPayment(c.Request.Context(), t, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Advance
// @Summary      Record a salary advance to an employee
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Param        id   path string true "Employee ID"
// @Param        body body dto.RecordPaymentRequest true "Advance"
// @Success      201 {object} dto.LedgerEntryResponse
// @Router       /v1/employees/{id}/advances [post]
func (h *LedgerHandler) Advance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledgers.RecordAdvance(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Salary
// @Summary      Record a salary payment, consuming outstanding advances
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Param        id   path string true "Employee ID"
// @Param        body body dto.RecordPaymentRequest true "Salary"
// @Success      201 {object} dto.LedgerEntryResponse
// @Router       /v1/employees/{id}/salaries [post]
func (h *LedgerHandler) Salary(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledgers.RecordSalary(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Ledger
// @Summary      Full ledger of one party with its running balance
// @Tags         ledgers
// @Produce      json
// @Param        type path string true "customer | supplier | employee"
// @Param        id   path string true "Party ID"
// @Success      200 {object} dto.LedgerListResponse
// @Router       /v1/parties/{type}/{id}/ledger [get]
func (h *LedgerHandler) Ledger(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.ledgers.GetLedger(c.Request.Context(), t, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

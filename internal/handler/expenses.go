package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenses service.ExpenseService
}

func NewExpenseHandler(expenses service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create
// @Summary      Record an operating expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateExpenseRequest true "Expense"
// @Success      201 {object} dto.ExpenseResponse
// @Router       /v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := cashierID(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.expenses.CreateExpense(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List
// @Summary      List expenses (filterable, paginated)
// @Tags         expenses
// @Produce      json
// @Param        category query string false "Category"
// @Param        from     query string false "YYYY-MM-DD"
// @Param        to       query string false "YYYY-MM-DD"
// @Param        cal      query string false "jalali = dates are Solar Hijri"
// @Success      200 {array} dto.ExpenseResponse
// @Router       /v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter dto.ExpenseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	items, total, err := h.expenses.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// Delete
// @Summary      Delete an expense entry (manager)
// @Tags         expenses
// @Param        id path string true "Expense ID"
// @Success      204
// @Router       /v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.expenses.DeleteExpense(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary
// @Summary      Expense totals per category for a date range
// @Tags         expenses
// @Produce      json
// @Param        from query string true  "YYYY-MM-DD"
// @Param        to   query string true  "YYYY-MM-DD"
// @Param        cal  query string false "jalali = dates are Solar Hijri"
// @Success      200 {object} dto.ExpenseSummaryResponse
// @Router       /v1/expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.expenses.Summarize(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

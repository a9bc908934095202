package dto

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	Category    string          `json:"category"    validate:"required"`
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Date        *string         `json:"date"` // YYYY-MM-DD; default today
	Description string          `json:"description"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
}

type ExpenseFilter struct {
	Category string `form:"category"`
	From     string `form:"from"`
	To       string `form:"to"`
	Calendar string `form:"cal"` // "jalali" = dates given in Solar Hijri
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ExpenseSummaryResponse struct {
	From       string                     `json:"from"`
	To         string                     `json:"to"`
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

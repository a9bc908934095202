package dto

import "github.com/shopspring/decimal"

type CreatePartyRequest struct {
	Name    string  `json:"name"    validate:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	// Employee only
	Role          *string          `json:"role"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary" validate:"omitempty,min=0"`
}

type UpdatePartyRequest struct {
	Name          *string          `json:"name"`
	Phone         *string          `json:"phone"`
	Address       *string          `json:"address"`
	Role          *string          `json:"role"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary" validate:"omitempty,min=0"`
}

type PartyResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Phone         *string          `json:"phone,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Role          *string          `json:"role,omitempty"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`
	Balance       decimal.Decimal  `json:"balance"`
	Active        bool             `json:"active"`
}

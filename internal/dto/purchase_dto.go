package dto

import "github.com/shopspring/decimal"

type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"required,min=0"` // invoice currency
	LotNumber string          `json:"lot_number"`
	ExpiresAt *string         `json:"expires_at"` // YYYY-MM-DD
}

type CreatePurchaseRequest struct {
	SupplierID string `json:"supplier_id" validate:"required,uuid"`
	Currency   string `json:"currency"    validate:"required,oneof=AFN USD"`
	// ExchangeRate: base-currency units per unit of invoice currency.
	// Must be 1 for AFN invoices.
	ExchangeRate decimal.Decimal       `json:"exchange_rate" validate:"required"`
	Lines        []PurchaseLineRequest `json:"lines"         validate:"required,min=1,dive"`
}

type ReturnPurchaseLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	LotNumber string `json:"lot_number"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type ReturnPurchaseRequest struct {
	OriginalID string                      `json:"original_id" validate:"required,uuid"`
	Lines      []ReturnPurchaseLineRequest `json:"lines"       validate:"required,min=1,dive"`
}

type PurchaseFilter struct {
	SupplierID string `form:"supplier_id" validate:"omitempty,uuid"`
	Kind       string `form:"kind,default=purchase"` // purchase | return | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PurchaseLineResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UnitCostBase decimal.Decimal `json:"unit_cost_base"`
	LotNumber    string          `json:"lot_number"`
	ExpiresAt    *string         `json:"expires_at,omitempty"`
}

type PurchaseResponse struct {
	ID           string                 `json:"id"`
	Number       int                    `json:"number"`
	Kind         string                 `json:"kind"`
	OriginalID   *string                `json:"original_id,omitempty"`
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name,omitempty"`
	Currency     string                 `json:"currency"`
	ExchangeRate decimal.Decimal        `json:"exchange_rate"`
	Total        decimal.Decimal        `json:"total"`      // face amount
	TotalBase    decimal.Decimal        `json:"total_base"` // base currency
	Lines        []PurchaseLineResponse `json:"lines"`
	CreatedAt    string                 `json:"created_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

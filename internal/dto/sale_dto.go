package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

// SaleLineRequest is one line of a sale. Either product_id (stock line) or
// description (ad-hoc service line) must be present.
type SaleLineRequest struct {
	ProductID     *string          `json:"product_id"     validate:"omitempty,uuid"`
	Description   *string          `json:"description"`
	Quantity      int              `json:"quantity"       validate:"required,min=1"`
	OverridePrice *decimal.Decimal `json:"override_price" validate:"omitempty,min=0"`
	// UnitPrice is required only for service lines; product lines take the
	// catalog price.
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,min=0"`
}

type CreateSaleRequest struct {
	Lines      []SaleLineRequest `json:"lines"       validate:"required,min=1,dive"`
	CustomerID *string           `json:"customer_id" validate:"omitempty,uuid"`
	Note       *string           `json:"note"`
	// CustomerEmail: optional - when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type EditSaleRequest struct {
	Lines []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
	Note  *string           `json:"note"`
}

type ReturnLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type ReturnSaleRequest struct {
	OriginalID string              `json:"original_id" validate:"required,uuid"`
	Lines      []ReturnLineRequest `json:"lines"       validate:"required,min=1,dive"`
	Note       *string             `json:"note"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type SaleFilter struct {
	Date      string `form:"date"`                 // YYYY-MM-DD; empty = today
	Kind      string `form:"kind,default=sale"`    // sale | return | all
	CashierID string `form:"cashier_id" validate:"omitempty,uuid"`
	Calendar  string `form:"cal"`                  // "jalali" = date given in Solar Hijri
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ProductID     *string          `json:"product_id,omitempty"`
	Description   string           `json:"description"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OverridePrice *decimal.Decimal `json:"override_price,omitempty"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	LineTotal     decimal.Decimal  `json:"line_total"`
}

type SaleResponse struct {
	ID         string             `json:"id"`
	Number     int                `json:"number"`
	Kind       string             `json:"kind"`
	OriginalID *string            `json:"original_id,omitempty"`
	CashierID  string             `json:"cashier_id"`
	CustomerID *string            `json:"customer_id,omitempty"`
	Lines      []SaleLineResponse `json:"lines"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Discount   decimal.Decimal    `json:"discount"`
	Total      decimal.Decimal    `json:"total"`
	Note       *string            `json:"note,omitempty"`
	CreatedAt  string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

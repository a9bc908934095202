package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Barcode  string `form:"barcode"`
	Category string `form:"category"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Barcode      *string         `json:"barcode"`
	Name         string          `json:"name"       validate:"required"`
	Category     string          `json:"category"`
	SalePrice    decimal.Decimal `json:"sale_price" validate:"required,min=0"`
	PackSize     *int            `json:"pack_size"  validate:"omitempty,min=1"`
	Manufacturer *string         `json:"manufacturer"`
	MinStock     *int            `json:"min_stock"  validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Barcode      *string          `json:"barcode"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	SalePrice    *decimal.Decimal `json:"sale_price" validate:"omitempty,min=0"`
	PackSize     *int             `json:"pack_size"  validate:"omitempty,min=1"`
	Manufacturer *string          `json:"manufacturer"`
	MinStock     *int             `json:"min_stock"  validate:"omitempty,min=0"`
}

type BatchResponse struct {
	ID          string          `json:"id"`
	LotNumber   string          `json:"lot_number"`
	Stock       int             `json:"stock"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	PurchasedAt string          `json:"purchased_at"`
	ExpiresAt   *string         `json:"expires_at,omitempty"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	Barcode      *string         `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	PackSize     *int            `json:"pack_size,omitempty"`
	Manufacturer *string         `json:"manufacturer,omitempty"`
	MinStock     int             `json:"min_stock"`
	TotalStock   int             `json:"total_stock"`
	Active       bool            `json:"active"`
	Batches      []BatchResponse `json:"batches,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse serves the unauthenticated barcode price endpoint.
type PriceCheckResponse struct {
	Name           string          `json:"name"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	StockAvailable int             `json:"stock_available"`
	Category       string          `json:"category"`
}

package dto

import "github.com/shopspring/decimal"

// AdjustBatchRequest is a manual stock correction on one batch.
type AdjustBatchRequest struct {
	BatchID string `json:"batch_id" validate:"required,uuid"`
	Delta   int    `json:"delta"    validate:"required"`
	Reason  string `json:"reason"   validate:"required,min=3"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	BatchID     *string `json:"batch_id,omitempty"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type MovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Kind      string `form:"kind"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// LowStockAlert flags products whose batch-summed stock fell below MinStock.
type LowStockAlert struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	TotalStock int    `json:"total_stock"`
	MinStock   int    `json:"min_stock"`
}

// ExpiryAlert flags batches expiring within the requested horizon.
type ExpiryAlert struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	BatchID     string          `json:"batch_id"`
	LotNumber   string          `json:"lot_number"`
	Stock       int             `json:"stock"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiresAt   string          `json:"expires_at"`
}

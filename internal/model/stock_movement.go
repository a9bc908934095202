package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement kinds.
const (
	MovementSale           = "sale"
	MovementPurchase       = "purchase"
	MovementSaleReturn     = "sale_return"
	MovementPurchaseReturn = "purchase_return"
	MovementEditRestore    = "edit_restore"
	MovementAdjustment     = "adjustment"
	MovementVoidRestore    = "void_restore"
)

// StockMovement records every stock change at product level.
// Created automatically on sales, purchases, returns, edits, and manual
// adjustments. Movements are never modified or deleted.
type StockMovement struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index"`
	BatchID   *uuid.UUID `gorm:"type:uuid"`
	// Kind: "sale" | "purchase" | "sale_return" | "purchase_return" |
	//       "edit_restore" | "adjustment" | "void_restore"
	Kind        string `gorm:"not null"`
	Quantity    int    `gorm:"not null"` // positive = in, negative = out
	StockBefore int    `gorm:"not null"`
	StockAfter  int    `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // originating invoice, if any
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "stock_movements" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase invoice kinds.
const (
	PurchaseKindPurchase = "purchase"
	PurchaseKindReturn   = "return"
)

// PurchaseInvoice records goods received from a supplier, or a purchase return.
// Kind: "purchase" | "return"
//
// Foreign-currency invoices (USD) are normalized at entry time: batch unit
// costs are stored converted to base currency, while Total keeps the
// original-currency face amount for display. TotalBase is what actually moves
// the supplier balance.
type PurchaseInvoice struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number       int        `gorm:"uniqueIndex;not null"`
	Kind         string     `gorm:"type:varchar(10);not null;default:'purchase'"`
	OriginalID   *uuid.UUID `gorm:"type:uuid;index"`
	SupplierID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Currency     string     `gorm:"type:varchar(3);not null;default:'AFN'"` // AFN | USD
	ExchangeRate decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"` // face amount, invoice currency
	TotalBase    decimal.Decimal `gorm:"type:decimal(12,2);not null"` // base currency
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines    []PurchaseLine `gorm:"foreignKey:InvoiceID"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
}

// PurchaseLine is one received lot. UnitCost is in the invoice currency;
// UnitCostBase is the converted cost that lands on the created batch.
type PurchaseLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity     int       `gorm:"not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UnitCostBase decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	LotNumber    string          `gorm:"not null;default:''"`
	ExpiresAt    *time.Time
	// BatchID links the batch this line created (nil on return lines).
	BatchID *uuid.UUID `gorm:"type:uuid"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale invoice kinds.
const (
	SaleKindSale   = "sale"
	SaleKindReturn = "return"
)

// SaleInvoice is a completed sale or a sale return.
// Kind: "sale" | "return"
// Returns always reference the original invoice via OriginalID.
type SaleInvoice struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number     int        `gorm:"uniqueIndex;not null"`
	Kind       string     `gorm:"type:varchar(10);not null;default:'sale'"`
	OriginalID *uuid.UUID `gorm:"type:uuid;index"`
	CashierID  uuid.UUID  `gorm:"type:uuid;not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	// Subtotal sums list prices; Total sums effective (possibly overridden) prices.
	// Discount = Subtotal - Total and MAY be negative: an override above list
	// price is a surcharge, and the sign is preserved.
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines    []SaleLine `gorm:"foreignKey:InvoiceID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Cashier  *User      `gorm:"foreignKey:CashierID"`
}

// SaleLine is one invoice line. ProductID is nil for ad-hoc service lines
// (gift wrapping, photocopies) that carry no stock.
type SaleLine struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID     *uuid.UUID `gorm:"type:uuid;index"`
	Description   string     `gorm:"not null"`
	Quantity      int        `gorm:"not null"`
	UnitPrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OverridePrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// UnitCost is snapshotted at sale time from the batches the line consumed,
	// so margin reports never depend on the product's later cost changes.
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// EffectivePrice returns the override price when set, the list price otherwise.
func (l *SaleLine) EffectivePrice() decimal.Decimal {
	if l.OverridePrice != nil {
		return *l.OverridePrice
	}
	return l.UnitPrice
}
